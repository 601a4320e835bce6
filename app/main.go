package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pharmacy-system/internal/listeners"
	"pharmacy-system/internal/routes"
	"pharmacy-system/internal/services"
	"pharmacy-system/internal/storage"
	"pharmacy-system/pkg/clock"
	"pharmacy-system/pkg/config"
	"pharmacy-system/pkg/customvalidator"
	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/eventbus"
	applogger "pharmacy-system/pkg/logger"
	appmiddleware "pharmacy-system/pkg/middleware"
	"pharmacy-system/pkg/service"
	"pharmacy-system/pkg/utils"
	"pharmacy-system/seeders"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Некорректная конфигурация", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	clk := clock.NewSystem()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Не удалось подключить хранилище", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer store.Close()

	if cfg.Storage.Backend == config.BackendMemory {
		seeder := seeders.New(store.Products, store.Branches, store.Users, true, logger.Named("seed"))
		if err := seeder.SeedAll(ctx); err != nil {
			logger.Fatal("Не удалось наполнить хранилище в памяти", zap.Error(err))
		}
	}

	cache, closeCache, err := storage.OpenCache(ctx, cfg.Redis, clk, logger)
	if err != nil {
		logger.Fatal("Не удалось подключить кэш", zap.Error(err))
	}
	defer closeCache()

	bus := eventbus.New(logger.Named("eventbus"))
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger.Named("jwt"))
	locker := services.NewLocker(cache, cfg.Reservation.ProductLockTTL, logger)

	reservationLogger := logger.Named("reservations")
	reservationService := services.NewReservationService(
		store.Reservations, store.Products, store.Branches, locker, bus, clk, reservationLogger,
	)
	saleService := services.NewSaleService(store.Sales, clk, logger.Named("sales"))
	listeners.NewReservationListener(saleService, cfg.Reservation.AutoSale, logger).Register(bus)

	routes.InitRouter(e, routes.Dependencies{
		Backend:            cfg.Storage.Backend,
		JWT:                jwtSvc,
		AuthService:        services.NewAuthService(store.Users, cache, jwtSvc, cfg.Auth, clk, logger.Named("auth")),
		ProductService:     services.NewProductService(store.Products, clk, logger.Named("catalog")),
		BranchService:      services.NewBranchService(store.Branches, logger.Named("catalog")),
		ReservationService: reservationService,
		SaleService:        saleService,
		ReportService: services.NewReportService(reservationService, saleService,
			store.Reservations, store.Products, store.Branches, store.Sales, clk, logger.Named("reports")),
	}, &routes.Loggers{
		Main:        logger,
		Auth:        logger.Named("auth"),
		Reservation: reservationLogger,
		Catalog:     logger.Named("catalog"),
		Sale:        logger.Named("sales"),
	})

	go services.NewSweeper(reservationService, cfg.Reservation.SweepInterval, logger).Run(ctx)

	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Storage.Backend))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
	logger.Info("Сервер остановлен")
}
