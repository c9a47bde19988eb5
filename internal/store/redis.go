// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is the Redis-backed Cache implementation (R5.1). Expiry is
// delegated to the server via SET TTLs, which gives the same
// expired-equals-absent behavior as the SQLite backend.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and verifies the connection. password
// may be empty for unauthenticated servers.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(redisOptions(addr, password, db))
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

func redisOptions(addr, password string, db int) *redis.Options {
	return &redis.Options{Addr: addr, Password: password, DB: db}
}

// Get returns the payload for key, or ok=false when the key is absent
// or already expired server-side.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	return payload, true, nil
}

// Put stores payload under key with ttl. SET overwrites unconditionally,
// so last write wins under concurrent identical queries.
func (c *RedisCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// Close releases the client connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func cacheKey(key string) string {
	return "spacehub:cache:" + key
}
