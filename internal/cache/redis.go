// Package cache provides the optional redis-backed like-count cache. All
// methods are nil-receiver safe: when redis is not configured the service
// layer simply falls through to the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jooseepaardoo/gymconnect-backend/internal/config"
)

// RedisCache wraps a redis client with like-count helpers.
type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

// New initializes a redis client from config. Returns nil when no address is
// configured, which disables caching throughout.
func New(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	if cfg.Addr == "" {
		return nil
	}
	opts := &redis.Options{Addr: cfg.Addr}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return &RedisCache{Client: redis.NewClient(opts), ttl: ttl}
}

// NewWithClient wraps an existing client; used by tests with miniredis.
func NewWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, ttl: ttl}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	if c == nil {
		return nil
	}
	return c.Client.Close()
}

func keyForLikeCount(userID string) string {
	return fmt.Sprintf("likes:count:%s", userID)
}

// SetLikeCount stores the authoritative count, refreshing the TTL.
func (c *RedisCache) SetLikeCount(ctx context.Context, userID string, count int64) error {
	if c == nil {
		return nil
	}
	return c.Client.Set(ctx, keyForLikeCount(userID), count, c.ttl).Err()
}

// IncrLikeCount bumps the cached count if the key exists. A missing key is
// left missing so the next read repopulates from the database instead of
// incrementing from zero.
func (c *RedisCache) IncrLikeCount(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	key := keyForLikeCount(userID)
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return err
	}
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, c.ttl).Err()
}

// GetLikeCount returns the cached count. ok is false on a miss.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID string) (int64, bool, error) {
	if c == nil {
		return 0, false, nil
	}
	key := keyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, c.ttl).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// InvalidateLikeCount drops the cached count, e.g. after account deletion.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	return c.Client.Del(ctx, keyForLikeCount(userID)).Err()
}
