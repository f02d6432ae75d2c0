package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stripekit/pkg/config"
)

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	t.Run("zero config is usable", func(t *testing.T) {
		t.Parallel()
		cfg := Config{}.withDefaults()
		assert.Equal(t, "customers", cfg.CustomersCollection)
		assert.Equal(t, "products", cfg.ProductsCollection)
		assert.Equal(t, 30*time.Second, cfg.CheckoutTimeout)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	})

	t.Run("explicit values win", func(t *testing.T) {
		t.Parallel()
		cfg := Config{
			CustomersCollection: "tenants",
			CheckoutTimeout:     time.Minute,
		}.withDefaults()
		assert.Equal(t, "tenants", cfg.CustomersCollection)
		assert.Equal(t, time.Minute, cfg.CheckoutTimeout)
		assert.Equal(t, "products", cfg.ProductsCollection)
	})
}

func TestConfig_EnvDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "customers", cfg.CustomersCollection)
	assert.Equal(t, "products", cfg.ProductsCollection)
	assert.Equal(t, 30*time.Second, cfg.CheckoutTimeout)
}
