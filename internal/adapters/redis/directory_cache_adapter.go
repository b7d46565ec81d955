package redis_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DirectoryCacheAdapter реализует port.CachePort поверх Redis.
// Кэш не источник истины: промах и протухание - штатные ситуации.
type DirectoryCacheAdapter struct {
	client *redis.Client
}

func NewDirectoryCacheAdapter(ctx context.Context, client *redis.Client) (*DirectoryCacheAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &DirectoryCacheAdapter{client: client}, nil
}

func (a *DirectoryCacheAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := a.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

func (a *DirectoryCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := a.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// DeleteByPrefix удаляет все ключи с данным префиксом через SCAN,
// чтобы не блокировать Redis командой KEYS на больших наборах.
func (a *DirectoryCacheAdapter) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := a.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := a.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del %q: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %q: %w", prefix, err)
	}
	return nil
}
