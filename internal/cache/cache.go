// Package cache is a small Redis-backed response cache. The client is
// optional: with no Redis address configured every call is a no-op and
// reads fall through to the database.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache stores JSON-encoded values with a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// New connects to Redis when addr is set; otherwise returns a disabled cache.
func New(ctx context.Context, addr, password string, ttl time.Duration, log zerolog.Logger) *Cache {
	c := &Cache{ttl: ttl, log: log.With().Str("component", "cache").Logger()}
	if addr == "" {
		return c
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		c.log.Warn().Err(err).Msg("redis unavailable, caching disabled")
		return c
	}
	c.client = client
	return c
}

// Enabled reports whether a Redis connection is active.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get loads the value stored under key into dest, reporting a hit.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

// Set stores val under key for the configured TTL. Failures are logged
// and otherwise ignored.
func (c *Cache) Set(ctx context.Context, key string, val any) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Delete removes keys, typically after a disconnect or a fresh sync.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
