package port

import (
	"context"
	"time"
)

// CachePort - необязательный ускоритель перед хранилищем.
// Ошибки кеша наружу не выходят: Get при любой проблеме сообщает о промахе,
// Set и инвалидация логируют и проглатывают ошибку.
type CachePort interface {
	// Get декодирует значение в dest и возвращает true при попадании
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, key string)
	// InvalidateByPattern удаляет ключи по glob-шаблону (ofertas:*)
	InvalidateByPattern(ctx context.Context, pattern string)
	Close() error
}
