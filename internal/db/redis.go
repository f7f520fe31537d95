package db

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a Redis client for addr and pings it so a
// misconfigured store fails at startup rather than on the first click.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return client, nil
}
