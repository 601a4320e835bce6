package storage

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"pharmacy-system/internal/integrations/mockapi"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/internal/repositories/memory"
	"pharmacy-system/internal/repositories/remote"
	"pharmacy-system/migrations"
	"pharmacy-system/pkg/clock"
	"pharmacy-system/pkg/config"
	"pharmacy-system/pkg/database/postgresql"
)

// Repositories - набор репозиториев выбранного хранилища.
type Repositories struct {
	Products     repositories.ProductRepositoryInterface
	Branches     repositories.BranchRepositoryInterface
	Reservations repositories.ReservationRepositoryInterface
	Sales        repositories.SaleRepositoryInterface
	Users        repositories.UserRepositoryInterface
	Close        func()
}

// Open подключает выбранное хранилище; для postgres сначала накатываются миграции.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendMockAPI:
		client := mockapi.New(cfg.MockAPI.BaseURL, cfg.MockAPI.Timeout, logger.Named("mockapi"))
		return &Repositories{
			Products:     remote.NewProductRepository(client),
			Branches:     remote.NewBranchRepository(client),
			Reservations: remote.NewReservationRepository(client, logger.Named("reservations")),
			Sales:        remote.NewSaleRepository(client, logger.Named("sales")),
			Users:        remote.NewUserRepository(client),
			Close:        func() {},
		}, nil

	case config.BackendPostgres:
		if err := migrations.Up(ctx, cfg.Postgres.DSN, logger.Named("migrations")); err != nil {
			return nil, fmt.Errorf("миграции: %w", err)
		}
		pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		txManager := repositories.NewTxManager(pool)
		return &Repositories{
			Products:     repositories.NewProductRepository(pool, logger),
			Branches:     repositories.NewBranchRepository(pool, logger),
			Reservations: repositories.NewReservationRepository(pool, logger),
			Sales:        repositories.NewSaleRepository(pool, txManager, logger),
			Users:        repositories.NewUserRepository(pool, logger),
			Close:        pool.Close,
		}, nil

	case config.BackendMemory:
		store := memory.NewStore()
		return &Repositories{
			Products:     store,
			Branches:     store,
			Reservations: store,
			Sales:        store,
			Users:        store,
			Close:        func() {},
		}, nil
	}
	return nil, fmt.Errorf("неизвестное хранилище %q", cfg.Storage.Backend)
}

// OpenCache - Redis, если задан REDIS_ADDRESS, иначе кэш в памяти процесса
// (блокировки и отзыв токенов тогда действуют только внутри одного экземпляра).
func OpenCache(ctx context.Context, cfg config.RedisConfig, clk clock.Clock, logger *zap.Logger) (repositories.CacheRepositoryInterface, func(), error) {
	if cfg.Address == "" {
		logger.Warn("REDIS_ADDRESS не задан, используется кэш в памяти")
		return repositories.NewMemoryCacheRepository(clk), func() {}, nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("не удалось подключиться к Redis %s: %w", cfg.Address, err)
	}
	return repositories.NewRedisCacheRepository(redisClient), func() { redisClient.Close() }, nil
}
