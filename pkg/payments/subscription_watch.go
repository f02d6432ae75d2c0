package payments

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

// SubscriptionEventType identifies what happened to a watched subscription.
type SubscriptionEventType string

const (
	SubscriptionCreated SubscriptionEventType = "created"
	SubscriptionUpdated SubscriptionEventType = "updated"
	SubscriptionDeleted SubscriptionEventType = "deleted"
)

// SubscriptionEvent describes one change to a watched subscription.
// Subscription is nil for delete events.
type SubscriptionEvent struct {
	Type         SubscriptionEventType
	Path         docstore.Path
	Subscription *Subscription
}

// SubscriptionHandler consumes subscription change events.
type SubscriptionHandler func(SubscriptionEvent)

type subscriptionChange struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument *subscriptionDocument `bson:"fullDocument"`
}

// OnCurrentUserSubscriptionUpdate watches the current user's subscriptions
// and invokes fn for every change until ctx is canceled. It blocks; run it
// in a goroutine. Returns nil once ctx ends, or ErrInternal if the change
// stream fails.
func (c *Client) OnCurrentUserSubscriptionUpdate(ctx context.Context, fn SubscriptionHandler) error {
	if fn == nil {
		return errors.New("subscription handler is required")
	}

	uid, err := c.resolver(ctx)
	if err != nil {
		return err
	}

	parent := docstore.NewPath(c.cfg.CustomersCollection, uid, subscriptionsCollection)
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "documentKey._id", Value: bson.Regex{Pattern: "^" + regexp.QuoteMeta(parent.String()+"/")}},
			{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}}}},
		}}},
	}

	stream, err := c.db.Collection(parent.Collection()).Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	defer stream.Close(context.WithoutCancel(ctx))

	for stream.Next(ctx) {
		var change subscriptionChange
		if err := stream.Decode(&change); err != nil {
			c.log.WarnContext(ctx, "failed to decode subscription change", slog.Any("error", err))
			continue
		}

		path, err := docstore.ParsePath(change.DocumentKey.ID)
		if err != nil {
			continue
		}

		event := SubscriptionEvent{Path: path}
		switch change.OperationType {
		case "insert":
			event.Type = SubscriptionCreated
		case "delete":
			event.Type = SubscriptionDeleted
		default:
			event.Type = SubscriptionUpdated
		}
		if change.FullDocument != nil {
			event.Subscription = newSubscription(path, *change.FullDocument)
		}

		fn(event)
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrInternal, err)
	}
	return nil
}
