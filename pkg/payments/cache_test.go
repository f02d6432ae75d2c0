package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stripekit/pkg/payments"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestRedisCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		t.Parallel()
		_, client := newTestRedis(t)
		cache := payments.NewRedisCache(client, "test:")

		require.NoError(t, cache.Set(ctx, "products/prod_1", []byte(`{"id":"prod_1"}`), time.Minute))
		got, err := cache.Get(ctx, "products/prod_1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"prod_1"}`, string(got))
	})

	t.Run("absent key is a cache miss", func(t *testing.T) {
		t.Parallel()
		_, client := newTestRedis(t)
		cache := payments.NewRedisCache(client, "test:")

		_, err := cache.Get(ctx, "products/absent")
		assert.ErrorIs(t, err, payments.ErrCacheMiss)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()
		srv, client := newTestRedis(t)
		cache := payments.NewRedisCache(client, "test:")

		require.NoError(t, cache.Set(ctx, "products/prod_1", []byte("{}"), time.Minute))
		srv.FastForward(2 * time.Minute)

		_, err := cache.Get(ctx, "products/prod_1")
		assert.ErrorIs(t, err, payments.ErrCacheMiss)
	})

	t.Run("keys are namespaced by prefix", func(t *testing.T) {
		t.Parallel()
		srv, client := newTestRedis(t)
		cache := payments.NewRedisCache(client, "billing:")

		require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
		assert.True(t, srv.Exists("billing:k"))
	})
}
