package payments

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// EntityCache is a byte-oriented cache for catalog entities. Implementations
// return ErrCacheMiss when a key is absent.
type EntityCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Redis-backed EntityCache.
type RedisCache struct {
	db        redis.UniversalClient
	keyPrefix string
}

// NewRedisCache creates a Redis-backed entity cache. Keys are namespaced
// with the given prefix to avoid collisions with other users of the same
// Redis database.
func NewRedisCache(client redis.UniversalClient, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "stripekit:"
	}
	return &RedisCache{db: client, keyPrefix: keyPrefix}
}

// Get returns ErrCacheMiss for absent keys.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.db.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

// Set stores a value with expiration. Zero ttl means no expiration.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.db.Set(ctx, c.keyPrefix+key, value, ttl).Err()
}
