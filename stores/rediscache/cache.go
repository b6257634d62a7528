package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-storefront/stores"

	"github.com/redis/go-redis/v9"
)

// Cache implements stores.Cache on a redis client.
type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

var _ stores.Cache = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("key %s: %w", key, stores.ErrCacheMiss)
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}
