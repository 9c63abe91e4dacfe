package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned on a cache miss so callers can fall through to the
// store without treating it as a failure.
var ErrMiss = errors.New("cache miss")

// Cache is a keyed read-through cache with targeted invalidation: a
// mutation drops only the keys of the entity it touched and their
// dependent list keys, never the whole keyspace.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect parses a redis URL and pings the server.
func Connect(redisURL string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Entity key helpers. Keys are "<entity>:<id>" plus a few list keys.
func TripKey(id string) string          { return "trip:" + id }
func PurchaseOrderKey(id string) string { return "po:" + id }

const (
	KeyDashboardStats = "dashboard:stats"
	KeyActiveTrips    = "trips:active"
	KeyActivePOs      = "pos:active"
)

// GetJSON loads the value at key into dest. A nil receiver always misses,
// so everything runs uncached when no Redis is configured.
func (c *Cache) GetJSON(key string, dest interface{}) error {
	if c == nil {
		return ErrMiss
	}
	val, err := c.rdb.Get(context.Background(), key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// SetJSON stores value at key with the configured TTL. Errors are returned
// but callers treat the cache as best-effort.
func (c *Cache) SetJSON(key string, value interface{}) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(context.Background(), key, data, c.ttl).Err()
}

// Invalidate drops exactly the given keys.
func (c *Cache) Invalidate(keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(context.Background(), keys...).Err()
}
