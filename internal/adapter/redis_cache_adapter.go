package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"detran-quiz/internal/domain"
	"detran-quiz/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisCacheAdapter is the domain.Cache backed by Redis strings.
type RedisCacheAdapter struct {
	client redis.Cmdable
}

// NewRedisCacheAdapter takes any redis.Cmdable, which lets tests pass a redismock client.
func NewRedisCacheAdapter(client redis.Cmdable) domain.Cache {
	return &RedisCacheAdapter{client: client}
}

// Get maps redis.Nil to domain.ErrCacheMiss and records hit, miss or error.
func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return val, nil
	case errors.Is(err, redis.Nil):
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return "", domain.ErrCacheMiss
	default:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
}

func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
