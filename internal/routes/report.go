package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharmacy-system/internal/controllers"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/middleware"
)

func runReportRouter(secureGroup *echo.Group, reportService services.ReportServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	reportController := controllers.NewReportController(reportService, logger)

	secureGroup.GET("/reports/summary", reportController.GetSummary, authMW.AdminOnly)
	secureGroup.GET("/reports/reservations", reportController.GetReservationsReport, authMW.AdminOnly)
	secureGroup.GET("/reports/sales", reportController.GetSalesReport, authMW.AdminOnly)
}
