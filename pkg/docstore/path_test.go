package docstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stripekit/pkg/docstore"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	t.Run("parses document path", func(t *testing.T) {
		t.Parallel()
		p, err := docstore.ParsePath("customers/u1/subscriptions/s1")
		require.NoError(t, err)
		assert.Equal(t, []string{"customers", "u1", "subscriptions", "s1"}, p.Segments())
		assert.Equal(t, "customers/u1/subscriptions/s1", p.String())
	})

	t.Run("rejects empty path", func(t *testing.T) {
		t.Parallel()
		_, err := docstore.ParsePath("")
		assert.ErrorIs(t, err, docstore.ErrInvalidPath)
	})

	t.Run("rejects empty segments", func(t *testing.T) {
		t.Parallel()
		_, err := docstore.ParsePath("customers//subscriptions/s1")
		assert.ErrorIs(t, err, docstore.ErrInvalidPath)
	})
}

func TestPath_Accessors(t *testing.T) {
	t.Parallel()

	p := docstore.NewPath("customers", "u1", "subscriptions", "s1")

	t.Run("own key", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "s1", p.ID())
		assert.Equal(t, "s1", p.KeyUp(0))
	})

	t.Run("key n segments up", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "subscriptions", p.KeyUp(1))
		assert.Equal(t, "u1", p.KeyUp(2))
		assert.Equal(t, "customers", p.KeyUp(3))
	})

	t.Run("key out of range is empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, p.KeyUp(4))
		assert.Empty(t, p.KeyUp(-1))
		assert.Empty(t, docstore.Path{}.ID())
	})

	t.Run("parent", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "customers/u1/subscriptions", p.Parent().String())
		assert.True(t, docstore.Path{}.Parent().IsZero())
	})

	t.Run("child", func(t *testing.T) {
		t.Parallel()
		child := docstore.NewPath("customers", "u1").Child("payments", "pay_1")
		assert.Equal(t, "customers/u1/payments/pay_1", child.String())
	})

	t.Run("zero value", func(t *testing.T) {
		t.Parallel()
		assert.True(t, docstore.Path{}.IsZero())
		assert.False(t, p.IsZero())
		assert.Equal(t, 4, p.Len())
	})
}

func TestPath_Collection(t *testing.T) {
	t.Parallel()

	t.Run("nested subcollection", func(t *testing.T) {
		t.Parallel()
		p := docstore.NewPath("customers", "u1", "subscriptions", "s1")
		assert.Equal(t, "customers.subscriptions", p.Collection())
	})

	t.Run("root collection document", func(t *testing.T) {
		t.Parallel()
		p := docstore.NewPath("products", "prod_1")
		assert.Equal(t, "products", p.Collection())
	})

	t.Run("price reference", func(t *testing.T) {
		t.Parallel()
		p := docstore.NewPath("products", "prod_1", "prices", "price_1")
		assert.Equal(t, "products.prices", p.Collection())
	})
}

func TestPath_Immutability(t *testing.T) {
	t.Parallel()

	segments := []string{"customers", "u1"}
	p := docstore.NewPath(segments...)
	segments[0] = "mutated"
	assert.Equal(t, "customers/u1", p.String())

	got := p.Segments()
	got[0] = "mutated"
	assert.Equal(t, "customers/u1", p.String())
}
