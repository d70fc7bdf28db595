package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// New creates a new Redis client.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// TTLCache stores opaque payloads under string keys with a fixed TTL.
type TTLCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTTLCache wraps a Redis client with a fixed expiry.
func NewTTLCache(client *redis.Client, ttl time.Duration) *TTLCache {
	return &TTLCache{client: client, ttl: ttl}
}

// Get returns the payload and whether the key was present.
func (c *TTLCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores the payload under key for the configured TTL.
func (c *TTLCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}
