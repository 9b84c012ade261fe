package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"detran-quiz/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Options turns the redis settings into client options. Address is either host:port or a
// redis:// URL; a URL carries its own credentials and db, which override the separate fields
// only when those are unset.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis.address is empty")
	}
	if !strings.Contains(cfg.Address, "://") {
		return &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}, nil
	}

	opt, err := redis.ParseURL(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid redis.address: %w", err)
	}
	if opt.Password == "" {
		opt.Password = cfg.Password
	}
	if opt.DB == 0 {
		opt.DB = cfg.DB
	}
	return opt, nil
}

// NewRedisClient connects and pings; the client is closed again when the ping fails.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opt.Addr, err)
	}
	return client, nil
}
