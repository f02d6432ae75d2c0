package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

// PaymentStatus represents the state of a payment intent.
type PaymentStatus string

const (
	PaymentRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentRequiresConfirmation  PaymentStatus = "requires_confirmation"
	PaymentRequiresAction        PaymentStatus = "requires_action"
	PaymentProcessing            PaymentStatus = "processing"
	PaymentRequiresCapture       PaymentStatus = "requires_capture"
	PaymentCanceled              PaymentStatus = "canceled"
	PaymentSucceeded             PaymentStatus = "succeeded"
)

// Payment is a read-only view of a payment record owned by a user.
type Payment struct {
	ID             string
	UID            string
	Amount         int64
	AmountReceived int64
	Currency       string
	Status         PaymentStatus
	Created        string  // UTC date string
	Description    *string // nil when absent
	Metadata       map[string]string
	Prices         []PriceRef
}

type paymentDocument struct {
	DocID          string            `bson:"_id"`
	Amount         int64             `bson:"amount"`
	AmountReceived int64             `bson:"amount_received"`
	Currency       string            `bson:"currency"`
	Status         PaymentStatus     `bson:"status"`
	Created        time.Time         `bson:"created"`
	Description    *string           `bson:"description"`
	Metadata       map[string]string `bson:"metadata"`
	Prices         []string          `bson:"prices"`
}

func newPayment(path docstore.Path, doc paymentDocument) *Payment {
	p := &Payment{
		ID:             path.ID(),
		UID:            path.KeyUp(2),
		Amount:         doc.Amount,
		AmountReceived: doc.AmountReceived,
		Currency:       doc.Currency,
		Status:         doc.Status,
		Created:        utcString(doc.Created),
		Description:    doc.Description,
		Metadata:       doc.Metadata,
	}
	if p.Metadata == nil {
		p.Metadata = map[string]string{}
	}
	p.Prices = make([]PriceRef, 0, len(doc.Prices))
	for _, raw := range doc.Prices {
		ref, err := docstore.ParsePath(raw)
		if err != nil {
			continue
		}
		p.Prices = append(p.Prices, PriceRef{ProductID: ref.KeyUp(2), PriceID: ref.ID()})
	}
	return p
}

// PaymentReader fetches payment records for a user.
type PaymentReader interface {
	// GetPayment retrieves one payment owned by uid.
	// Returns ErrPaymentNotFound if no such document exists and ErrInternal
	// for any other store failure.
	GetPayment(ctx context.Context, uid, paymentID string) (*Payment, error)

	// ListPayments retrieves all payments owned by uid, ordered by creation time.
	ListPayments(ctx context.Context, uid string) ([]*Payment, error)
}

type storePaymentReader struct {
	db        *mongo.Database
	customers string
	log       *slog.Logger
}

func newStorePaymentReader(db *mongo.Database, customers string, log *slog.Logger) *storePaymentReader {
	return &storePaymentReader{db: db, customers: customers, log: log}
}

func (r *storePaymentReader) GetPayment(ctx context.Context, uid, paymentID string) (*Payment, error) {
	path := docstore.NewPath(r.customers, uid, paymentsCollection, paymentID)

	var doc paymentDocument
	err := r.db.Collection(path.Collection()).
		FindOne(ctx, bson.M{"_id": path.String()}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Join(ErrPaymentNotFound,
			fmt.Errorf("no payment %q for user %q", paymentID, uid))
	}
	if err != nil {
		r.log.ErrorContext(ctx, "payment read failed",
			slog.String("path", path.String()), slog.Any("error", err))
		return nil, errors.Join(ErrInternal, err)
	}

	return newPayment(path, doc), nil
}

func (r *storePaymentReader) ListPayments(ctx context.Context, uid string) ([]*Payment, error) {
	parent := docstore.NewPath(r.customers, uid, paymentsCollection)
	filter := bson.M{"_id": bson.Regex{Pattern: "^" + regexp.QuoteMeta(parent.String()+"/")}}

	cursor, err := r.db.Collection(parent.Collection()).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created", Value: 1}}))
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	var docs []paymentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	payments := make([]*Payment, 0, len(docs))
	for _, doc := range docs {
		path, err := docstore.ParsePath(doc.DocID)
		if err != nil {
			r.log.WarnContext(ctx, "skipping payment with malformed path key",
				slog.String("id", doc.DocID))
			continue
		}
		payments = append(payments, newPayment(path, doc))
	}
	return payments, nil
}

// GetCurrentUserPayment retrieves one payment owned by the currently
// signed-in user.
func (c *Client) GetCurrentUserPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, ErrInvalidPaymentID
	}
	uid, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return c.paymentReader().GetPayment(ctx, uid, paymentID)
}

// ListCurrentUserPayments retrieves all payments owned by the currently
// signed-in user, ordered by creation time.
func (c *Client) ListCurrentUserPayments(ctx context.Context) ([]*Payment, error) {
	uid, err := c.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return c.paymentReader().ListPayments(ctx, uid)
}
