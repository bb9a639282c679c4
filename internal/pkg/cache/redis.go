package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
	Backoff    time.Duration
}

// ConnectRedisWithRetry pings the server until it answers or retries run out.
func ConnectRedisWithRetry(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var lastErr error
	for i := 1; i <= opts.MaxRetries; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			slog.InfoContext(ctx, "connected to redis", "addr", opts.Addr)
			return rdb, nil
		}

		slog.WarnContext(ctx, "redis ping failed", "attempt", i, "max_retries", opts.MaxRetries, "error", lastErr)
		if i < opts.MaxRetries {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return nil, ctx.Err()
			case <-time.After(opts.Backoff):
			}
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect redis at %s: %w", opts.Addr, lastErr)
}
