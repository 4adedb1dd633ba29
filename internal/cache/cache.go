// Package cache is a small JSON cache-aside layer over Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fairway/backend/pkg/logger"
)

// JSON caches JSON-encoded values under a key prefix. A nil Redis client disables caching.
type JSON struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewJSON(rdb *redis.Client, prefix string, ttl time.Duration) *JSON {
	return &JSON{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *JSON) key(k string) string { return c.prefix + ":" + k }

// Fetch returns the cached value for key or calls load and caches its result.
// Redis failures are logged and fall through to load.
func Fetch[T any](ctx context.Context, c *JSON, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.rdb == nil {
		return load(ctx)
	}

	if data, err := c.rdb.Get(ctx, c.key(key)).Bytes(); err == nil {
		var out T
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			return out, nil
		}
	} else if err != redis.Nil {
		logger.Warn("cache read failed", zap.String("key", c.key(key)), zap.Error(err))
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if payload, err := json.Marshal(v); err == nil {
		if err := c.rdb.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
			logger.Warn("cache write failed", zap.String("key", c.key(key)), zap.Error(err))
		}
	}
	return v, nil
}

// Delete drops keys from the cache.
func (c *JSON) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

// Purge drops every key under the prefix.
func (c *JSON) Purge(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, c.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
