package domain

import (
	"context"
	"time"
)

// CacheError is a sentinel error type for the cache port.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss reports an absent key. Any other Get error means the cache is unusable.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the string key/value port used for the catalog cache and health checks.
type Cache interface {
	// Get returns ErrCacheMiss for an absent key.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value for expiration; zero keeps it until deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
