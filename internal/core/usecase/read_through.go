package usecase

import (
	"context"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"

	"golang.org/x/sync/singleflight"
)

// readThrough - кеш перед хранилищем. cache может быть nil, тогда каждый вызов идет в хранилище.
// Одновременные промахи по одному ключу схлопываются в один запрос к хранилищу.
type readThrough struct {
	cache port.CachePort
	group singleflight.Group
}

func newReadThrough(cache port.CachePort) *readThrough {
	return &readThrough{cache: cache}
}

// cachedLoad возвращает значение из кеша или загружает его через load и кладет в кеш.
// Второе значение - было ли попадание в кеш.
func cachedLoad[T any](ctx context.Context, rt *readThrough, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"cache_key": key})

	if rt.cache == nil {
		value, err := load(ctx)
		return value, false, err
	}

	var cached T
	if rt.cache.Get(ctx, key, &cached) {
		logger.Debug("Cache hit", nil)
		return cached, true, nil
	}
	logger.Debug("Cache miss", nil)

	// отмена одного из ожидающих не должна ронять запрос для остальных
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := rt.group.Do(key, func() (interface{}, error) {
		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}
		rt.cache.Set(loadCtx, key, value, ttl)
		return value, nil
	})
	if shared {
		logger.Debug("Storage load shared with concurrent request", nil)
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}

// invalidateListingCaches сбрасывает все производные от объявлений ключи
func invalidateListingCaches(ctx context.Context, cache port.CachePort, patterns []string) {
	if cache == nil {
		return
	}
	for _, pattern := range patterns {
		cache.InvalidateByPattern(ctx, pattern)
	}
}
