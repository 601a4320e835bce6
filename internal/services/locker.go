package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pharmacy-system/internal/repositories"
	apperrors "pharmacy-system/pkg/errors"
)

const (
	lockKeyPrefix     = "lock:"
	lockWait          = 2 * time.Second
	lockRetryInterval = 50 * time.Millisecond
)

type LockerInterface interface {
	// Lock берёт блокировку по ключу; unlock обязательно вызвать через defer.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Locker - блокировка на SETNX с TTL. TTL страхует от зависшей блокировки, если процесс упал.
type Locker struct {
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

func NewLocker(cache repositories.CacheRepositoryInterface, ttl time.Duration, logger *zap.Logger) *Locker {
	return &Locker{cache: cache, ttl: ttl, wait: lockWait, logger: logger.Named("locker")}
}

func productLockKey(productID string) string {
	return "product:" + productID
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := lockKeyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.cache.SetNX(ctx, fullKey, token, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("не удалось взять блокировку %s: %w", key, err)
		}
		if ok {
			return func() { l.release(fullKey, token) }, nil
		}
		if time.Now().After(deadline) {
			l.logger.Warn("Блокировка занята", zap.String("key", key))
			return nil, apperrors.ErrResourceBusy
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// release снимает только свою блокировку: после истечения TTL ключ мог взять другой запрос.
// Проверка и удаление не атомарны; окно между ними покрывается коротким TTL.
func (l *Locker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	current, err := l.cache.Get(ctx, key)
	if errors.Is(err, repositories.ErrCacheMiss) {
		return
	}
	if err != nil {
		l.logger.Error("Ошибка чтения блокировки", zap.String("key", key), zap.Error(err))
		return
	}
	if current != token {
		return
	}
	if err := l.cache.Del(ctx, key); err != nil {
		l.logger.Error("Ошибка снятия блокировки", zap.String("key", key), zap.Error(err))
	}
}
