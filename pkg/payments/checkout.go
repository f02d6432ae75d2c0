package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

// CheckoutMode selects what the checkout session pays for.
type CheckoutMode string

const (
	CheckoutModeSubscription CheckoutMode = "subscription"
	CheckoutModePayment      CheckoutMode = "payment"
)

// CheckoutSessionParams describes a checkout session to create.
type CheckoutSessionParams struct {
	ProductID           string       // product owning the price
	PriceID             string       // price to check out
	Quantity            int64        // defaults to 1
	SuccessURL          string       // redirect after successful payment
	CancelURL           string       // redirect if the customer cancels
	Mode                CheckoutMode // defaults to CheckoutModeSubscription
	AllowPromotionCodes bool
	TrialPeriodDays     *int64
	Metadata            map[string]string
}

func (p CheckoutSessionParams) validate() error {
	if p.ProductID == "" || p.PriceID == "" {
		return errors.Join(ErrInvalidCheckoutParams, errors.New("product id and price id are required"))
	}
	if p.SuccessURL == "" || p.CancelURL == "" {
		return errors.Join(ErrInvalidCheckoutParams, errors.New("success and cancel URLs are required"))
	}
	return nil
}

// CheckoutSession is the created session once the sync backend has populated
// its hosted checkout URL.
type CheckoutSession struct {
	ID      string
	UID     string
	URL     string
	Created string // UTC date string
}

type checkoutSessionDocument struct {
	URL   *string `bson:"url"`
	Error *struct {
		Message string `bson:"message"`
	} `bson:"error"`
	Created time.Time `bson:"created"`
}

type checkoutSessionChange struct {
	FullDocument *checkoutSessionDocument `bson:"fullDocument"`
}

// CreateCheckoutSession writes a checkout session document for the current
// user and waits for the sync backend to populate the hosted checkout URL.
// The wait is bounded by Config.CheckoutTimeout; on expiry the call fails
// with ErrCheckoutSessionTimeout and the document is left for the backend to
// finish processing.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	uid, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}

	if params.Quantity <= 0 {
		params.Quantity = 1
	}
	if params.Mode == "" {
		params.Mode = CheckoutModeSubscription
	}

	sessionID := uuid.NewString()
	path := docstore.NewPath(c.cfg.CustomersCollection, uid, checkoutSessionsCollection, sessionID)
	pricePath := docstore.NewPath(c.cfg.ProductsCollection, params.ProductID, pricesCollection, params.PriceID)
	created := time.Now().UTC()

	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.CheckoutTimeout)
	defer cancel()

	// The stream must be open before the insert so no backend update can
	// slip between write and watch.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "documentKey._id", Value: path.String()},
		}}},
	}
	coll := c.db.Collection(path.Collection())
	stream, err := coll.Watch(waitCtx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	defer stream.Close(context.WithoutCancel(ctx))

	doc := bson.M{
		"_id":                   path.String(),
		"price":                 pricePath.String(),
		"quantity":              params.Quantity,
		"success_url":           params.SuccessURL,
		"cancel_url":            params.CancelURL,
		"mode":                  string(params.Mode),
		"allow_promotion_codes": params.AllowPromotionCodes,
		"metadata":              params.Metadata,
		"created":               created,
	}
	if params.TrialPeriodDays != nil {
		doc["trial_period_days"] = *params.TrialPeriodDays
	}

	if _, err := coll.InsertOne(waitCtx, doc); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	c.log.DebugContext(ctx, "checkout session created, awaiting URL",
		slog.String("path", path.String()))

	for stream.Next(waitCtx) {
		var change checkoutSessionChange
		if err := stream.Decode(&change); err != nil {
			c.log.WarnContext(ctx, "failed to decode checkout session change", slog.Any("error", err))
			continue
		}
		if change.FullDocument == nil {
			continue
		}
		if e := change.FullDocument.Error; e != nil {
			return nil, errors.Join(ErrCheckoutSessionFailed, errors.New(e.Message))
		}
		if u := change.FullDocument.URL; u != nil && *u != "" {
			return &CheckoutSession{
				ID:      sessionID,
				UID:     uid,
				URL:     *u,
				Created: utcString(created),
			}, nil
		}
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, errors.Join(ErrInternal, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, ErrCheckoutSessionTimeout
}
