// Package cache wraps the optional Redis cache in front of the project
// directory. Every method tolerates a nil receiver so callers degrade to the
// database when no cache is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss reports that a key is absent from the cache.
var ErrMiss = errors.New("cache: miss")

// ProjectListKey returns the cache key for the project directory listing in
// one language. Readers and the admin write paths must agree on this format.
func ProjectListKey(lang string) string {
	return "projects:" + lang
}

// Cache is a thin JSON cache over a Redis connection.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if errPing := client.Ping(pingCtx).Err(); errPing != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", errPing)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// GetJSON loads a key and decodes it into dest. A nil cache or absent key
// returns ErrMiss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	if c == nil || c.client == nil {
		return ErrMiss
	}
	raw, errGet := c.client.Get(ctx, key).Bytes()
	if errGet != nil {
		if errors.Is(errGet, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("cache: get %s: %w", key, errGet)
	}
	if errDecode := json.Unmarshal(raw, dest); errDecode != nil {
		return fmt.Errorf("cache: decode %s: %w", key, errDecode)
	}
	return nil
}

// SetJSON encodes value and stores it under key with the configured TTL.
// A nil cache is a no-op.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, errEncode := json.Marshal(value)
	if errEncode != nil {
		return fmt.Errorf("cache: encode %s: %w", key, errEncode)
	}
	if errSet := c.client.Set(ctx, key, raw, c.ttl).Err(); errSet != nil {
		return fmt.Errorf("cache: set %s: %w", key, errSet)
	}
	return nil
}

// Delete removes keys. A nil cache is a no-op.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	if errDel := c.client.Del(ctx, keys...).Err(); errDel != nil {
		return fmt.Errorf("cache: delete: %w", errDel)
	}
	return nil
}
