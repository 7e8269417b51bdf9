package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options tunes the client built by NewClient.
type Options struct {
	PoolSize    int
	DialTimeout time.Duration
}

// NewClient parses redisURL, applies opts and pings the server.
func NewClient(ctx context.Context, redisURL string, opts ...Options) (*redis.Client, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	for _, o := range opts {
		if o.PoolSize > 0 {
			parsed.PoolSize = o.PoolSize
		}
		if o.DialTimeout > 0 {
			parsed.DialTimeout = o.DialTimeout
		}
	}

	client := redis.NewClient(parsed)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", parsed.Addr, err)
	}

	return client, nil
}
