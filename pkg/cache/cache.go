// Package cache is a small JSON read-through cache on Redis. Every call is
// a no-op (a miss) until Connect succeeds, so the API works without Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

// Keys shared by the catalog read paths and the writes that invalidate them.
const (
	KeyCategories   = "categories:all"
	KeyProductCount = "products:count"
)

// TTL is the lifetime of catalog entries.
const TTL = 5 * time.Minute

var RDB *redis.Client

// Connect initialises the Redis client and verifies it with a ping. On
// failure RDB stays nil and the cache keeps behaving as a miss.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return nil
}

// Close releases the client, if connected.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get unmarshals the value under key into dest and reports a hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(val, dest) == nil
}

// Set stores value as JSON under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Forget removes keys and only logs a failure; callers use it after a
// successful write where the write result matters more than the eviction.
func Forget(ctx context.Context, keys ...string) {
	if err := Del(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("cache forget", "keys", keys, "error", err)
	}
}

// Remember returns the cached value for key, or calls load, stores its
// result for ttl and returns it. Load errors are never cached.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues(key).Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(key).Inc()

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if err := Set(ctx, key, v, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache set", "key", key, "error", err)
	}
	return v, nil
}
