package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharmacy-system/internal/controllers"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/middleware"
)

func runSaleRouter(secureGroup *echo.Group, saleService services.SaleServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	saleCtrl := controllers.NewSaleController(saleService, logger)
	{
		secureGroup.GET("/sales", saleCtrl.GetSales, authMW.AdminOnly)
		secureGroup.POST("/sale", saleCtrl.CreateSale, authMW.AdminOnly)
		secureGroup.GET("/sale/:id", saleCtrl.FindSale, authMW.AdminOnly)
		secureGroup.DELETE("/sale/:id", saleCtrl.DeleteSale, authMW.AdminOnly)
	}
}
