package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharmacy-system/internal/controllers"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/middleware"
)

func runProductRouter(secureGroup *echo.Group, productService services.ProductServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	productCtrl := controllers.NewProductController(productService, logger)
	{
		secureGroup.GET("/products", productCtrl.GetProducts)
		secureGroup.GET("/product/:id", productCtrl.FindProduct)
	}
	{
		secureGroup.POST("/product", productCtrl.CreateProduct, authMW.AdminOnly)
		secureGroup.PUT("/product/:id", productCtrl.UpdateProduct, authMW.AdminOnly)
		secureGroup.DELETE("/product/:id", productCtrl.DeleteProduct, authMW.AdminOnly)
	}
}
