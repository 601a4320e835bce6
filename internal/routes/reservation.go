package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharmacy-system/internal/controllers"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/middleware"
)

func runReservationRouter(secureGroup *echo.Group, reservationService services.ReservationServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	reservationCtrl := controllers.NewReservationController(reservationService, logger)
	{
		secureGroup.POST("/reservation", reservationCtrl.CreateReservation)
		secureGroup.GET("/reservations/my", reservationCtrl.GetMyReservations)
		secureGroup.POST("/reservation/:id/cancel", reservationCtrl.CancelReservation)
	}
	{
		secureGroup.GET("/reservations", reservationCtrl.GetReservations, authMW.AdminOnly)
		secureGroup.POST("/reservations/sweep", reservationCtrl.SweepExpired, authMW.AdminOnly)
		secureGroup.GET("/reservation/:id", reservationCtrl.FindReservation, authMW.AdminOnly)
		secureGroup.POST("/reservation/:id/confirm", reservationCtrl.ConfirmPickup, authMW.AdminOnly)
		secureGroup.DELETE("/reservation/:id", reservationCtrl.DeleteReservation, authMW.AdminOnly)
	}
}
