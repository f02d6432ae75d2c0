package payments

import (
	"time"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

// SubscriptionStatus represents the current state of a subscription,
// mirroring Stripe's subscription status values.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusUnpaid            SubscriptionStatus = "unpaid"
)

// PriceRef identifies one price within a product.
type PriceRef struct {
	ProductID string
	PriceID   string
}

// Subscription is a read-only, denormalized view of a stored subscription
// record plus its related price/product references. A fresh instance is
// produced on every successful read and never mutated afterwards.
//
// Timestamps are UTC date strings in HTTP date format
// ("Mon, 02 Jan 2006 15:04:05 GMT"). Optional fields are nil pointers when
// the stored value is absent, so every documented field is always present
// with either a real value or an explicit nil.
type Subscription struct {
	ID                 string  // own key of the subscription document
	UID                string  // owning user, derived from the document path
	Status             SubscriptionStatus
	Created            string  // UTC date string, always present
	CurrentPeriodStart string  // UTC date string, always present
	CurrentPeriodEnd   string  // UTC date string, always present
	CancelAt           *string // optional UTC date string
	CanceledAt         *string // optional UTC date string
	EndedAt            *string // optional UTC date string
	TrialStart         *string // optional UTC date string
	TrialEnd           *string // optional UTC date string
	CancelAtPeriodEnd  bool
	PriceID            string            // own key of the price reference
	ProductID          string            // own key of the product reference
	Prices             []PriceRef        // one entry per stored price reference, order preserved
	Quantity           *int64            // nil when absent
	Role               *string           // nil when absent
	Metadata           map[string]string // empty map when absent, never nil
	StripeLink         string
}

// IsActive returns true if the subscription is active (paid).
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsTrialing returns true if the subscription is in trial status.
func (s *Subscription) IsTrialing() bool {
	return s.Status == StatusTrialing
}

// IsCanceled returns true if the subscription is canceled.
func (s *Subscription) IsCanceled() bool {
	return s.Status == StatusCanceled
}

// utcDateLayout matches the format the original records were rendered with
// (HTTP date, always GMT).
const utcDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

func utcString(t time.Time) string {
	return t.UTC().Format(utcDateLayout)
}

func utcStringPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := utcString(*t)
	return &s
}

// subscriptionDocument is the stored shape of a subscription record.
// Field names follow the snake_case convention written by the sync backend;
// reference-typed fields hold slash document paths.
type subscriptionDocument struct {
	DocID              string             `bson:"_id"`
	CancelAt           *time.Time         `bson:"cancel_at"`
	CancelAtPeriodEnd  bool               `bson:"cancel_at_period_end"`
	CanceledAt         *time.Time         `bson:"canceled_at"`
	Created            time.Time          `bson:"created"`
	CurrentPeriodStart time.Time          `bson:"current_period_start"`
	CurrentPeriodEnd   time.Time          `bson:"current_period_end"`
	EndedAt            *time.Time         `bson:"ended_at"`
	Metadata           map[string]string  `bson:"metadata"`
	Price              string             `bson:"price"`
	Prices             []string           `bson:"prices"`
	Product            string             `bson:"product"`
	Quantity           *int64             `bson:"quantity"`
	Role               *string            `bson:"role"`
	Status             SubscriptionStatus `bson:"status"`
	StripeLink         string             `bson:"stripeLink"`
	TrialEnd           *time.Time         `bson:"trial_end"`
	TrialStart         *time.Time         `bson:"trial_start"`
}

// newSubscription converts a stored subscription document into the public
// Subscription shape. The conversion is pure, total over existing documents,
// and strictly one-directional: there is no inverse, the Subscription value
// is never written back.
//
// The subscription's own ID comes from the document path's last segment and
// the owning user ID from two segments up; neither is stored redundantly in
// the body.
func newSubscription(path docstore.Path, doc subscriptionDocument) *Subscription {
	sub := &Subscription{
		ID:                 path.ID(),
		UID:                path.KeyUp(2),
		Status:             doc.Status,
		Created:            utcString(doc.Created),
		CurrentPeriodStart: utcString(doc.CurrentPeriodStart),
		CurrentPeriodEnd:   utcString(doc.CurrentPeriodEnd),
		CancelAt:           utcStringPtr(doc.CancelAt),
		CanceledAt:         utcStringPtr(doc.CanceledAt),
		EndedAt:            utcStringPtr(doc.EndedAt),
		TrialStart:         utcStringPtr(doc.TrialStart),
		TrialEnd:           utcStringPtr(doc.TrialEnd),
		CancelAtPeriodEnd:  doc.CancelAtPeriodEnd,
		Quantity:           doc.Quantity,
		Role:               doc.Role,
		Metadata:           doc.Metadata,
		StripeLink:         doc.StripeLink,
	}

	if sub.Metadata == nil {
		sub.Metadata = map[string]string{}
	}

	if ref, err := docstore.ParsePath(doc.Price); err == nil {
		sub.PriceID = ref.ID()
	}
	if ref, err := docstore.ParsePath(doc.Product); err == nil {
		sub.ProductID = ref.ID()
	}

	sub.Prices = make([]PriceRef, 0, len(doc.Prices))
	for _, raw := range doc.Prices {
		ref, err := docstore.ParsePath(raw)
		if err != nil {
			continue
		}
		sub.Prices = append(sub.Prices, PriceRef{
			ProductID: ref.KeyUp(2),
			PriceID:   ref.ID(),
		})
	}

	return sub
}
