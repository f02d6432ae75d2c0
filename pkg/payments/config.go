package payments

import "time"

// Config represents the configuration for the payments client.
type Config struct {
	CustomersCollection string        `env:"PAYMENTS_CUSTOMERS_COLLECTION" envDefault:"customers"` // CustomersCollection is the root collection holding customer documents.
	ProductsCollection  string        `env:"PAYMENTS_PRODUCTS_COLLECTION" envDefault:"products"`   // ProductsCollection is the root collection holding the product catalog.
	CheckoutTimeout     time.Duration `env:"PAYMENTS_CHECKOUT_TIMEOUT" envDefault:"30s"`           // CheckoutTimeout bounds the wait for the sync backend to populate a checkout session URL.
	CacheTTL            time.Duration `env:"PAYMENTS_CACHE_TTL" envDefault:"5m"`                   // CacheTTL is the expiration for cached catalog entities.
}

// Fixed subcollection names written by the Stripe sync backend under each
// customer document.
const (
	subscriptionsCollection    = "subscriptions"
	paymentsCollection         = "payments"
	checkoutSessionsCollection = "checkout_sessions"
	pricesCollection           = "prices"
)

// withDefaults fills zero-valued fields so a zero Config is usable.
func (c Config) withDefaults() Config {
	if c.CustomersCollection == "" {
		c.CustomersCollection = "customers"
	}
	if c.ProductsCollection == "" {
		c.ProductsCollection = "products"
	}
	if c.CheckoutTimeout <= 0 {
		c.CheckoutTimeout = 30 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
	return c
}
