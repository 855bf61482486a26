package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache - кеш внутри процесса для одной реплики и локального запуска.
// Значения хранятся в JSON, чтобы вызывающий не мог изменить закешированный срез.
type MemoryCache struct {
	items *gocache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) bool {
	v, ok := c.items.Get(key)
	if !ok {
		c.misses.Add(1)
		return false
	}
	raw, ok := v.([]byte)
	if !ok {
		c.misses.Add(1)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Cache entry is corrupted, dropping it", port.Fields{"cache_key": key, "error": err.Error()})
		c.items.Delete(key)
		c.misses.Add(1)
		return false
	}
	c.hits.Add(1)
	return true
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to encode cache entry", err, port.Fields{"cache_key": key})
		return
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, raw, ttl)
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.items.Delete(key)
}

// InvalidateByPattern понимает '*' и '?' так же, как Redis MATCH, в том числе через '/'.
func (c *MemoryCache) InvalidateByPattern(ctx context.Context, pattern string) {
	deleted := 0
	for key := range c.items.Items() {
		if matchGlob(pattern, key) {
			c.items.Delete(key)
			deleted++
		}
	}
	contextkeys.LoggerFromContext(ctx).Debug("Cache keys invalidated", port.Fields{"pattern": pattern, "deleted": deleted})
}

// Stats - счетчики попаданий и промахов с момента старта
func (c *MemoryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}
