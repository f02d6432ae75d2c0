package payments

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/stripekit/pkg/logger"
)

// Client is the session object for the payments document mirror. It is safe
// for concurrent use: the only shared mutable state is the component
// registry, which memoizes lazily constructed readers per client.
type Client struct {
	db         *mongo.Database
	cfg        Config
	log        *slog.Logger
	resolver   UserResolver
	cache      EntityCache
	components *registry
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a custom logger for the client and its components.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithUserResolver replaces the default context-based resolver for the
// currently signed-in user.
func WithUserResolver(resolver UserResolver) Option {
	return func(c *Client) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithEntityCache enables read-through caching of catalog entities
// (products and prices). Subscription and payment reads are never cached.
func WithEntityCache(cache EntityCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithSubscriptionReader seeds the registry with a custom SubscriptionReader
// implementation, e.g. a fake in tests or an alternative backend.
func WithSubscriptionReader(reader SubscriptionReader) Option {
	return func(c *Client) {
		if reader != nil {
			c.components.set(subscriptionReaderKey, reader)
		}
	}
}

// WithPaymentReader seeds the registry with a custom PaymentReader implementation.
func WithPaymentReader(reader PaymentReader) Option {
	return func(c *Client) {
		if reader != nil {
			c.components.set(paymentReaderKey, reader)
		}
	}
}

// New creates a payments client on top of a connected database handle.
// Panics if db is nil to fail fast during initialization.
func New(db *mongo.Database, cfg Config, opts ...Option) *Client {
	if db == nil {
		panic("payments: database handle is required")
	}

	c := &Client{
		db:         db,
		cfg:        cfg.withDefaults(),
		log:        logger.Noop(),
		resolver:   ContextUserResolver,
		components: newRegistry(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// subscriptionReader returns the memoized SubscriptionReader, constructing
// the store-backed implementation on first use.
func (c *Client) subscriptionReader() SubscriptionReader {
	return c.components.getOrCreate(subscriptionReaderKey, func() any {
		return newStoreSubscriptionReader(c.db, c.cfg.CustomersCollection, c.log)
	}).(SubscriptionReader)
}

// paymentReader returns the memoized PaymentReader.
func (c *Client) paymentReader() PaymentReader {
	return c.components.getOrCreate(paymentReaderKey, func() any {
		return newStorePaymentReader(c.db, c.cfg.CustomersCollection, c.log)
	}).(PaymentReader)
}

// productReader returns the memoized product catalog reader.
func (c *Client) productReader() *productReader {
	return c.components.getOrCreate(productReaderKey, func() any {
		return newProductReader(c.db, c.cfg, c.cache, c.log)
	}).(*productReader)
}

// GetCurrentUserSubscription retrieves one subscription owned by the
// currently signed-in user.
//
// It fails with ErrInvalidSubscriptionID before any store interaction when
// subscriptionID is blank, with the resolver's error when no user is signed
// in, with ErrSubscriptionNotFound when the record does not exist, and with
// ErrInternal on any other store failure.
func (c *Client) GetCurrentUserSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, ErrInvalidSubscriptionID
	}

	uid, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}

	return c.subscriptionReader().GetSubscription(ctx, uid, subscriptionID)
}

// GetCurrentUserSubscriptions retrieves all subscriptions owned by the
// currently signed-in user, ordered by creation time.
func (c *Client) GetCurrentUserSubscriptions(ctx context.Context) ([]*Subscription, error) {
	uid, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return c.subscriptionReader().ListSubscriptions(ctx, uid)
}

// SubscriptionsWithStatus retrieves the current user's subscriptions
// restricted to the given statuses.
func (c *Client) SubscriptionsWithStatus(ctx context.Context, statuses ...SubscriptionStatus) ([]*Subscription, error) {
	if len(statuses) == 0 {
		return nil, errors.New("at least one subscription status is required")
	}
	uid, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return c.subscriptionReader().ListSubscriptions(ctx, uid, statuses...)
}
