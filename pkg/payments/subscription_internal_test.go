package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

func fixtureSubscriptionDocument() subscriptionDocument {
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	periodStart := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	periodEnd := time.Date(2024, 4, 1, 10, 30, 0, 0, time.UTC)
	quantity := int64(2)
	role := "premium"

	return subscriptionDocument{
		DocID:              "customers/uid_1/subscriptions/sub_1",
		CancelAtPeriodEnd:  true,
		Created:            created,
		CurrentPeriodStart: periodStart,
		CurrentPeriodEnd:   periodEnd,
		Metadata:           map[string]string{"source": "landing"},
		Price:              "products/prod_1/prices/price_1",
		Prices: []string{
			"products/prod_1/prices/price_1",
			"products/prod_2/prices/price_2",
			"products/prod_3/prices/price_3",
		},
		Product:    "products/prod_1",
		Quantity:   &quantity,
		Role:       &role,
		Status:     StatusActive,
		StripeLink: "https://dashboard.stripe.com/subscriptions/sub_1",
	}
}

func TestNewSubscription(t *testing.T) {
	t.Parallel()

	path := docstore.NewPath("customers", "uid_1", "subscriptions", "sub_1")

	t.Run("identifiers come from the document path", func(t *testing.T) {
		t.Parallel()
		sub := newSubscription(path, fixtureSubscriptionDocument())
		assert.Equal(t, "sub_1", sub.ID)
		assert.Equal(t, "uid_1", sub.UID)
	})

	t.Run("required timestamps render as UTC date strings", func(t *testing.T) {
		t.Parallel()
		sub := newSubscription(path, fixtureSubscriptionDocument())
		assert.Equal(t, "Fri, 01 Mar 2024 10:30:00 GMT", sub.Created)
		assert.Equal(t, "Fri, 01 Mar 2024 10:30:00 GMT", sub.CurrentPeriodStart)
		assert.Equal(t, "Mon, 01 Apr 2024 10:30:00 GMT", sub.CurrentPeriodEnd)
	})

	t.Run("non-UTC stored timestamps normalize to UTC", func(t *testing.T) {
		t.Parallel()
		doc := fixtureSubscriptionDocument()
		loc := time.FixedZone("UTC+3", 3*3600)
		doc.Created = time.Date(2024, 3, 1, 13, 30, 0, 0, loc)
		sub := newSubscription(path, doc)
		assert.Equal(t, "Fri, 01 Mar 2024 10:30:00 GMT", sub.Created)
	})

	t.Run("absent optional timestamps stay nil", func(t *testing.T) {
		t.Parallel()
		sub := newSubscription(path, fixtureSubscriptionDocument())
		assert.Nil(t, sub.CancelAt)
		assert.Nil(t, sub.CanceledAt)
		assert.Nil(t, sub.EndedAt)
		assert.Nil(t, sub.TrialStart)
		assert.Nil(t, sub.TrialEnd)
	})

	t.Run("present optional timestamps convert", func(t *testing.T) {
		t.Parallel()
		doc := fixtureSubscriptionDocument()
		cancelAt := time.Date(2024, 4, 1, 10, 30, 0, 0, time.UTC)
		trialEnd := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		doc.CancelAt = &cancelAt
		doc.TrialEnd = &trialEnd

		sub := newSubscription(path, doc)
		require.NotNil(t, sub.CancelAt)
		assert.Equal(t, "Mon, 01 Apr 2024 10:30:00 GMT", *sub.CancelAt)
		require.NotNil(t, sub.TrialEnd)
		assert.Equal(t, "Fri, 15 Mar 2024 00:00:00 GMT", *sub.TrialEnd)
	})

	t.Run("reference fields resolve to identifiers", func(t *testing.T) {
		t.Parallel()
		sub := newSubscription(path, fixtureSubscriptionDocument())
		assert.Equal(t, "price_1", sub.PriceID)
		assert.Equal(t, "prod_1", sub.ProductID)
	})

	t.Run("prices preserve stored order and resolve both keys", func(t *testing.T) {
		t.Parallel()
		sub := newSubscription(path, fixtureSubscriptionDocument())
		require.Len(t, sub.Prices, 3)
		assert.Equal(t, PriceRef{ProductID: "prod_1", PriceID: "price_1"}, sub.Prices[0])
		assert.Equal(t, PriceRef{ProductID: "prod_2", PriceID: "price_2"}, sub.Prices[1])
		assert.Equal(t, PriceRef{ProductID: "prod_3", PriceID: "price_3"}, sub.Prices[2])

		// First element corresponds to the top-level price/product pair.
		assert.Equal(t, sub.PriceID, sub.Prices[0].PriceID)
		assert.Equal(t, sub.ProductID, sub.Prices[0].ProductID)
	})

	t.Run("absent metadata becomes empty map", func(t *testing.T) {
		t.Parallel()
		doc := fixtureSubscriptionDocument()
		doc.Metadata = nil
		sub := newSubscription(path, doc)
		require.NotNil(t, sub.Metadata)
		assert.Empty(t, sub.Metadata)
	})

	t.Run("absent quantity and role stay nil", func(t *testing.T) {
		t.Parallel()
		doc := fixtureSubscriptionDocument()
		doc.Quantity = nil
		doc.Role = nil
		sub := newSubscription(path, doc)
		assert.Nil(t, sub.Quantity)
		assert.Nil(t, sub.Role)
	})

	t.Run("remaining scalar fields carry over", func(t *testing.T) {
		t.Parallel()
		sub := newSubscription(path, fixtureSubscriptionDocument())
		assert.Equal(t, StatusActive, sub.Status)
		assert.True(t, sub.CancelAtPeriodEnd)
		assert.Equal(t, "https://dashboard.stripe.com/subscriptions/sub_1", sub.StripeLink)
		require.NotNil(t, sub.Quantity)
		assert.EqualValues(t, 2, *sub.Quantity)
		require.NotNil(t, sub.Role)
		assert.Equal(t, "premium", *sub.Role)
		assert.Equal(t, map[string]string{"source": "landing"}, sub.Metadata)
	})
}

func TestSubscription_StatusHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Subscription{Status: StatusActive}).IsActive())
	assert.True(t, (&Subscription{Status: StatusTrialing}).IsTrialing())
	assert.True(t, (&Subscription{Status: StatusCanceled}).IsCanceled())
	assert.False(t, (&Subscription{Status: StatusPastDue}).IsActive())
}

func TestNewPayment(t *testing.T) {
	t.Parallel()

	path := docstore.NewPath("customers", "uid_1", "payments", "pay_1")
	doc := paymentDocument{
		DocID:          "customers/uid_1/payments/pay_1",
		Amount:         1099,
		AmountReceived: 1099,
		Currency:       "usd",
		Status:         PaymentSucceeded,
		Created:        time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Prices:         []string{"products/prod_1/prices/price_1"},
	}

	payment := newPayment(path, doc)
	assert.Equal(t, "pay_1", payment.ID)
	assert.Equal(t, "uid_1", payment.UID)
	assert.Equal(t, "Fri, 01 Mar 2024 10:30:00 GMT", payment.Created)
	assert.Nil(t, payment.Description)
	require.NotNil(t, payment.Metadata)
	assert.Empty(t, payment.Metadata)
	require.Len(t, payment.Prices, 1)
	assert.Equal(t, PriceRef{ProductID: "prod_1", PriceID: "price_1"}, payment.Prices[0])
}

func TestNewProductAndPrice(t *testing.T) {
	t.Parallel()

	t.Run("product identifiers and metadata default", func(t *testing.T) {
		t.Parallel()
		path := docstore.NewPath("products", "prod_1")
		product := newProduct(path, productDocument{Name: "Pro", Active: true})
		assert.Equal(t, "prod_1", product.ID)
		assert.True(t, product.Active)
		require.NotNil(t, product.Metadata)
		assert.Empty(t, product.Metadata)
	})

	t.Run("price resolves product from path", func(t *testing.T) {
		t.Parallel()
		path := docstore.NewPath("products", "prod_1", "prices", "price_1")
		price := newPrice(path, priceDocument{Currency: "usd", UnitAmount: 990, Type: PriceTypeRecurring})
		assert.Equal(t, "price_1", price.ID)
		assert.Equal(t, "prod_1", price.ProductID)
		assert.Equal(t, PriceTypeRecurring, price.Type)
	})
}
