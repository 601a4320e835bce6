package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharmacy-system/internal/controllers"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/middleware"
	"pharmacy-system/pkg/service"
)

type Loggers struct {
	Main        *zap.Logger
	Auth        *zap.Logger
	Reservation *zap.Logger
	Catalog     *zap.Logger
	Sale        *zap.Logger
}

// Dependencies - собранные в main сервисы; хранилище уже выбрано и спрятано за ними.
type Dependencies struct {
	Backend            string
	JWT                service.JWTService
	AuthService        services.AuthServiceInterface
	ProductService     services.ProductServiceInterface
	BranchService      services.BranchServiceInterface
	ReservationService services.ReservationServiceInterface
	SaleService        services.SaleServiceInterface
	ReportService      services.ReportServiceInterface
}

func InitRouter(e *echo.Echo, deps Dependencies, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(deps.JWT, deps.AuthService, loggers.Auth)

	api.GET("/health", controllers.NewHealthController(deps.Backend).Check)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, deps.AuthService, loggers.Auth)
	runProductRouter(secureGroup, deps.ProductService, loggers.Catalog, authMW)
	runBranchRouter(secureGroup, deps.BranchService, loggers.Catalog, authMW)
	runReservationRouter(secureGroup, deps.ReservationService, loggers.Reservation, authMW)
	runSaleRouter(secureGroup, deps.SaleService, loggers.Sale, authMW)
	runReportRouter(secureGroup, deps.ReportService, loggers.Main, authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
