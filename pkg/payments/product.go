package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/text/currency"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

// PriceType represents Stripe's price billing scheme.
type PriceType string

const (
	PriceTypeOneTime   PriceType = "one_time"
	PriceTypeRecurring PriceType = "recurring"
)

// Product is a read-only view of a product catalog entry.
type Product struct {
	ID          string
	Active      bool
	Name        string
	Description *string
	Role        *string
	Images      []string
	Metadata    map[string]string
	Prices      []*Price // populated only when requested
}

// Price is a read-only view of a price attached to a product.
type Price struct {
	ID              string
	ProductID       string
	Active          bool
	Currency        string // lowercase ISO 4217 code as stored by Stripe
	UnitAmount      int64  // amount in the smallest currency unit
	Description     *string
	Type            PriceType
	Interval        *string // "day", "week", "month" or "year"; nil for one-time prices
	IntervalCount   *int64
	TrialPeriodDays *int64
	Metadata        map[string]string
}

// FormatAmount renders the unit amount with its currency symbol for display,
// e.g. "USD 9.99". Falls back to a plain numeric rendering when the stored
// currency code is not a known ISO 4217 code.
func (p *Price) FormatAmount() string {
	unit, err := currency.ParseISO(p.Currency)
	if err != nil {
		return fmt.Sprintf("%.2f %s", float64(p.UnitAmount)/100, strings.ToUpper(p.Currency))
	}
	return fmt.Sprintf("%v", unit.Amount(float64(p.UnitAmount)/100))
}

// ListProductsOptions controls catalog listing.
type ListProductsOptions struct {
	ActiveOnly    bool  // only products marked active
	IncludePrices bool  // fetch each product's prices subcollection
	Limit         int64 // 0 means no limit
}

type productDocument struct {
	DocID       string            `bson:"_id"`
	Active      bool              `bson:"active"`
	Name        string            `bson:"name"`
	Description *string           `bson:"description"`
	Role        *string           `bson:"role"`
	Images      []string          `bson:"images"`
	Metadata    map[string]string `bson:"metadata"`
}

type priceDocument struct {
	DocID           string            `bson:"_id"`
	Active          bool              `bson:"active"`
	Currency        string            `bson:"currency"`
	UnitAmount      int64             `bson:"unit_amount"`
	Description     *string           `bson:"description"`
	Type            PriceType         `bson:"type"`
	Interval        *string           `bson:"interval"`
	IntervalCount   *int64            `bson:"interval_count"`
	TrialPeriodDays *int64            `bson:"trial_period_days"`
	Metadata        map[string]string `bson:"metadata"`
}

func newProduct(path docstore.Path, doc productDocument) *Product {
	p := &Product{
		ID:          path.ID(),
		Active:      doc.Active,
		Name:        doc.Name,
		Description: doc.Description,
		Role:        doc.Role,
		Images:      doc.Images,
		Metadata:    doc.Metadata,
	}
	if p.Metadata == nil {
		p.Metadata = map[string]string{}
	}
	return p
}

func newPrice(path docstore.Path, doc priceDocument) *Price {
	p := &Price{
		ID:              path.ID(),
		ProductID:       path.KeyUp(2),
		Active:          doc.Active,
		Currency:        doc.Currency,
		UnitAmount:      doc.UnitAmount,
		Description:     doc.Description,
		Type:            doc.Type,
		Interval:        doc.Interval,
		IntervalCount:   doc.IntervalCount,
		TrialPeriodDays: doc.TrialPeriodDays,
		Metadata:        doc.Metadata,
	}
	if p.Metadata == nil {
		p.Metadata = map[string]string{}
	}
	return p
}

// productReader reads the product catalog, optionally through an EntityCache.
// Catalog entries change rarely, so read-through caching is safe here in a
// way it would not be for subscription state.
type productReader struct {
	db    *mongo.Database
	cfg   Config
	cache EntityCache
	log   *slog.Logger
}

func newProductReader(db *mongo.Database, cfg Config, cache EntityCache, log *slog.Logger) *productReader {
	return &productReader{db: db, cfg: cfg, cache: cache, log: log}
}

func (r *productReader) getProduct(ctx context.Context, productID string) (*Product, error) {
	path := docstore.NewPath(r.cfg.ProductsCollection, productID)

	if product, ok := cacheGet[Product](ctx, r.cache, r.log, path.String()); ok {
		return product, nil
	}

	var doc productDocument
	err := r.db.Collection(path.Collection()).
		FindOne(ctx, bson.M{"_id": path.String()}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Join(ErrProductNotFound, fmt.Errorf("no product %q", productID))
	}
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	product := newProduct(path, doc)
	cacheSet(ctx, r.cache, r.log, path.String(), product, r.cfg.CacheTTL)
	return product, nil
}

func (r *productReader) listProducts(ctx context.Context, opts ListProductsOptions) ([]*Product, error) {
	filter := bson.M{}
	if opts.ActiveOnly {
		filter["active"] = true
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(opts.Limit)
	}

	cursor, err := r.db.Collection(r.cfg.ProductsCollection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	products := make([]*Product, 0, len(docs))
	for _, doc := range docs {
		path, err := docstore.ParsePath(doc.DocID)
		if err != nil {
			r.log.WarnContext(ctx, "skipping product with malformed path key",
				slog.String("id", doc.DocID))
			continue
		}
		product := newProduct(path, doc)
		if opts.IncludePrices {
			prices, err := r.listPrices(ctx, product.ID)
			if err != nil {
				return nil, err
			}
			product.Prices = prices
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *productReader) getPrice(ctx context.Context, productID, priceID string) (*Price, error) {
	path := docstore.NewPath(r.cfg.ProductsCollection, productID, pricesCollection, priceID)

	if price, ok := cacheGet[Price](ctx, r.cache, r.log, path.String()); ok {
		return price, nil
	}

	var doc priceDocument
	err := r.db.Collection(path.Collection()).
		FindOne(ctx, bson.M{"_id": path.String()}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Join(ErrPriceNotFound,
			fmt.Errorf("no price %q for product %q", priceID, productID))
	}
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	price := newPrice(path, doc)
	cacheSet(ctx, r.cache, r.log, path.String(), price, r.cfg.CacheTTL)
	return price, nil
}

func (r *productReader) listPrices(ctx context.Context, productID string) ([]*Price, error) {
	parent := docstore.NewPath(r.cfg.ProductsCollection, productID, pricesCollection)
	filter := bson.M{"_id": bson.Regex{Pattern: "^" + regexp.QuoteMeta(parent.String()+"/")}}

	cursor, err := r.db.Collection(parent.Collection()).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	var docs []priceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	prices := make([]*Price, 0, len(docs))
	for _, doc := range docs {
		path, err := docstore.ParsePath(doc.DocID)
		if err != nil {
			r.log.WarnContext(ctx, "skipping price with malformed path key",
				slog.String("id", doc.DocID))
			continue
		}
		prices = append(prices, newPrice(path, doc))
	}
	return prices, nil
}

// cacheGet fetches and decodes a cached entity. A miss, a nil cache, or a
// decode failure all report not-ok so the caller falls through to the store.
func cacheGet[T any](ctx context.Context, cache EntityCache, log *slog.Logger, key string) (*T, bool) {
	if cache == nil {
		return nil, false
	}
	raw, err := cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.DebugContext(ctx, "entity cache read failed",
				slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.DebugContext(ctx, "entity cache decode failed",
			slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return &v, true
}

// cacheSet stores an entity; failures are logged and never surfaced.
func cacheSet(ctx context.Context, cache EntityCache, log *slog.Logger, key string, v any, ttl time.Duration) {
	if cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.DebugContext(ctx, "entity cache encode failed",
			slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := cache.Set(ctx, key, raw, ttl); err != nil {
		log.DebugContext(ctx, "entity cache write failed",
			slog.String("key", key), slog.Any("error", err))
	}
}

// GetProduct retrieves one product catalog entry.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrInvalidProductID
	}
	return c.productReader().getProduct(ctx, productID)
}

// ListProducts retrieves product catalog entries.
func (c *Client) ListProducts(ctx context.Context, opts ListProductsOptions) ([]*Product, error) {
	return c.productReader().listProducts(ctx, opts)
}

// GetPrice retrieves one price belonging to a product.
func (c *Client) GetPrice(ctx context.Context, productID, priceID string) (*Price, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrInvalidProductID
	}
	if strings.TrimSpace(priceID) == "" {
		return nil, ErrInvalidPriceID
	}
	return c.productReader().getPrice(ctx, productID, priceID)
}

// ListPrices retrieves all prices of a product.
func (c *Client) ListPrices(ctx context.Context, productID string) ([]*Price, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrInvalidProductID
	}
	return c.productReader().listPrices(ctx, productID)
}
