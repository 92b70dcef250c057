package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/usecase"
)

// Cache implements usecase.Cache using Redis.
type Cache struct {
	client  redis.UniversalClient
	metrics *metrics.Metrics
	prefix  string
}

// NewCache creates a new Cache. m may be nil.
func NewCache(client redis.UniversalClient, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		metrics: m,
		prefix:  "cache:",
	}
}

// Get retrieves a value by key, returning usecase.ErrCacheMiss when absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.observe("get", nil)
		return nil, usecase.ErrCacheMiss
	}
	c.observe("get", err)
	return val, err
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	c.observe("set", err)
	return err
}

// SetNX sets a value only if it doesn't exist.
func (c *Cache) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.prefix+key, value, ttl).Result()
	c.observe("setnx", err)
	return ok, err
}

// Delete removes all keys in a single DEL.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}

	err := c.client.Del(ctx, full...).Err()
	c.observe("del", err)
	return err
}

func (c *Cache) observe(op string, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.RedisOperations.WithLabelValues(op).Inc()
	if err != nil {
		c.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
