package payments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stripekit/pkg/payments"
)

func TestUserContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := payments.SetUserToContext(context.Background(), "uid_1")
		uid, ok := payments.GetUserFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "uid_1", uid)
	})

	t.Run("absent user", func(t *testing.T) {
		t.Parallel()
		_, ok := payments.GetUserFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("empty user id reads as absent", func(t *testing.T) {
		t.Parallel()
		ctx := payments.SetUserToContext(context.Background(), "")
		_, ok := payments.GetUserFromContext(ctx)
		assert.False(t, ok)
	})
}

func TestContextUserResolver(t *testing.T) {
	t.Parallel()

	t.Run("resolves the signed-in user", func(t *testing.T) {
		t.Parallel()
		ctx := payments.SetUserToContext(context.Background(), "uid_1")
		uid, err := payments.ContextUserResolver(ctx)
		require.NoError(t, err)
		assert.Equal(t, "uid_1", uid)
	})

	t.Run("fails without a signed-in user", func(t *testing.T) {
		t.Parallel()
		_, err := payments.ContextUserResolver(context.Background())
		assert.ErrorIs(t, err, payments.ErrNoSignedInUser)
	})
}
