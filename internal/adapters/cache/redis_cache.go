package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"

	"github.com/redis/go-redis/v9"
)

const (
	defaultOpTimeout = 500 * time.Millisecond
	scanBatchSize    = 200
)

type RedisConfig struct {
	URL string
	// OpTimeout ограничивает каждую операцию, медленный кеш не должен тормозить запрос
	OpTimeout time.Duration
}

// RedisCache реализует port.CachePort. Любая ошибка Redis превращается в промах.
type RedisCache struct {
	client    *redis.Client
	opTimeout time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache создает клиент и проверяет соединение. Недоступный Redis не ошибка:
// сервис стартует, а кеш будет промахиваться, пока Redis не поднимется.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}
	opts.DialTimeout = cfg.OpTimeout
	opts.ReadTimeout = cfg.OpTimeout
	opts.WriteTimeout = cfg.OpTimeout
	opts.MaxRetries = 1

	c := &RedisCache{client: redis.NewClient(opts), opTimeout: cfg.OpTimeout}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "RedisCache", "addr": opts.Addr})
	pingCtx, cancel := context.WithTimeout(ctx, cfg.OpTimeout)
	defer cancel()
	if err := c.client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis is unreachable, cache will miss until it recovers", port.Fields{"error": err.Error()})
	} else {
		logger.Info("Connected to Redis", nil)
	}
	return c, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := c.client.Get(opCtx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			contextkeys.LoggerFromContext(ctx).Warn("Cache get failed", port.Fields{"cache_key": key, "error": err.Error()})
		}
		c.misses.Add(1)
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Cache entry is corrupted, dropping it", port.Fields{"cache_key": key, "error": err.Error()})
		c.client.Del(opCtx, key)
		c.misses.Add(1)
		return false
	}

	c.hits.Add(1)
	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	logger := contextkeys.LoggerFromContext(ctx)

	raw, err := json.Marshal(value)
	if err != nil {
		logger.Error("Failed to encode cache entry", err, port.Fields{"cache_key": key})
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	if err := c.client.Set(opCtx, key, raw, ttl).Err(); err != nil {
		logger.Warn("Cache set failed", port.Fields{"cache_key": key, "error": err.Error()})
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	if err := c.client.Del(opCtx, key).Err(); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Cache delete failed", port.Fields{"cache_key": key, "error": err.Error()})
	}
}

// InvalidateByPattern обходит ключи через SCAN, KEYS не блокирует Redis на больших базах
func (c *RedisCache) InvalidateByPattern(ctx context.Context, pattern string) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"pattern": pattern})

	opCtx, cancel := context.WithTimeout(ctx, 10*c.opTimeout)
	defer cancel()

	deleted := 0
	batch := make([]string, 0, scanBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Del(opCtx, batch...).Err(); err != nil {
			return err
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	iter := c.client.Scan(opCtx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(opCtx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := flush(); err != nil {
				logger.Warn("Cache invalidation failed", port.Fields{"error": err.Error()})
				return
			}
		}
	}
	if err := iter.Err(); err != nil {
		logger.Warn("Cache scan failed", port.Fields{"error": err.Error()})
		return
	}
	if err := flush(); err != nil {
		logger.Warn("Cache invalidation failed", port.Fields{"error": err.Error()})
		return
	}

	logger.Debug("Cache keys invalidated", port.Fields{"deleted": deleted})
}

// Stats - счетчики попаданий и промахов с момента старта
func (c *RedisCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
