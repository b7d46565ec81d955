package port

import (
	"context"
	"time"
)

// CachePort - кэш сериализованных ответов. Промах кэша - это не ошибка:
// реализация возвращает (nil, false, nil).
type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
