package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

// SubscriptionReader fetches subscription records for a user. The production
// implementation reads from the document store; tests substitute fakes via
// WithSubscriptionReader without touching the client.
type SubscriptionReader interface {
	// GetSubscription retrieves one subscription owned by uid.
	// Returns ErrSubscriptionNotFound if no such document exists and
	// ErrInternal for any other store failure.
	GetSubscription(ctx context.Context, uid, subscriptionID string) (*Subscription, error)

	// ListSubscriptions retrieves all subscriptions owned by uid, ordered by
	// creation time. When statuses are given, only matching records are
	// returned.
	ListSubscriptions(ctx context.Context, uid string, statuses ...SubscriptionStatus) ([]*Subscription, error)
}

// storeSubscriptionReader is the document-store-backed SubscriptionReader.
type storeSubscriptionReader struct {
	db        *mongo.Database
	customers string
	log       *slog.Logger
}

func newStoreSubscriptionReader(db *mongo.Database, customers string, log *slog.Logger) *storeSubscriptionReader {
	return &storeSubscriptionReader{db: db, customers: customers, log: log}
}

// GetSubscription performs a single atomic read-then-convert: no retries,
// no caching, no partial results.
func (r *storeSubscriptionReader) GetSubscription(ctx context.Context, uid, subscriptionID string) (*Subscription, error) {
	path := docstore.NewPath(r.customers, uid, subscriptionsCollection, subscriptionID)

	var doc subscriptionDocument
	err := r.db.Collection(path.Collection()).
		FindOne(ctx, bson.M{"_id": path.String()}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Join(ErrSubscriptionNotFound,
			fmt.Errorf("no subscription %q for user %q", subscriptionID, uid))
	}
	if err != nil {
		r.log.ErrorContext(ctx, "subscription read failed",
			slog.String("path", path.String()), slog.Any("error", err))
		return nil, errors.Join(ErrInternal, err)
	}

	return newSubscription(path, doc), nil
}

func (r *storeSubscriptionReader) ListSubscriptions(ctx context.Context, uid string, statuses ...SubscriptionStatus) ([]*Subscription, error) {
	parent := docstore.NewPath(r.customers, uid, subscriptionsCollection)

	filter := bson.M{"_id": bson.Regex{Pattern: "^" + regexp.QuoteMeta(parent.String()+"/")}}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	cursor, err := r.db.Collection(parent.Collection()).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created", Value: 1}}))
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	var docs []subscriptionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	subs := make([]*Subscription, 0, len(docs))
	for _, doc := range docs {
		docPath, err := docstore.ParsePath(doc.DocID)
		if err != nil {
			r.log.WarnContext(ctx, "skipping subscription with malformed path key",
				slog.String("id", doc.DocID))
			continue
		}
		subs = append(subs, newSubscription(docPath, doc))
	}
	return subs, nil
}
