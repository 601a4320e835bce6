package repositories

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"pharmacy-system/pkg/clock"
)

type memoryCacheItem struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheRepository - кеш в памяти процесса, когда REDIS_ADDRESS не задан.
// Подходит только для одного экземпляра сервиса.
type MemoryCacheRepository struct {
	mu    sync.Mutex
	items map[string]memoryCacheItem
	clock clock.Clock
}

func NewMemoryCacheRepository(clk clock.Clock) CacheRepositoryInterface {
	return &MemoryCacheRepository{items: make(map[string]memoryCacheItem), clock: clk}
}

// lookup вызывается под mu и заодно вычищает протухший ключ.
func (r *MemoryCacheRepository) lookup(key string) (memoryCacheItem, bool) {
	item, ok := r.items[key]
	if !ok {
		return item, false
	}
	if !item.expiresAt.IsZero() && !r.clock.Now().Before(item.expiresAt) {
		delete(r.items, key)
		return item, false
	}
	return item, true
}

func (r *MemoryCacheRepository) deadline(expiration time.Duration) time.Time {
	if expiration <= 0 {
		return time.Time{}
	}
	return r.clock.Now().Add(expiration)
}

func (r *MemoryCacheRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.lookup(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return item.value, nil
}

func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = memoryCacheItem{value: fmt.Sprint(value), expiresAt: r.deadline(expiration)}
	return nil
}

func (r *MemoryCacheRepository) Del(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.items, k)
	}
	return nil
}

func (r *MemoryCacheRepository) Incr(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.lookup(key)
	var n int64
	if ok {
		parsed, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("значение ключа %s не является числом", key)
		}
		n = parsed
	} else {
		// протухший ключ начинается заново, без старого срока
		item = memoryCacheItem{}
	}
	n++
	item.value = strconv.FormatInt(n, 10)
	r.items[key] = item
	return n, nil
}

func (r *MemoryCacheRepository) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.lookup(key)
	if !ok {
		return false, nil
	}
	item.expiresAt = r.deadline(expiration)
	r.items[key] = item
	return true, nil
}

func (r *MemoryCacheRepository) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lookup(key); ok {
		return false, nil
	}
	r.items[key] = memoryCacheItem{value: fmt.Sprint(value), expiresAt: r.deadline(expiration)}
	return true, nil
}

func (r *MemoryCacheRepository) Exists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.lookup(key)
	return ok, nil
}
