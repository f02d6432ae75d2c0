package payments

import "errors"

var (
	// Argument validation failures, raised before any store interaction.
	ErrInvalidSubscriptionID = errors.New("subscription id must be a non-empty string")
	ErrInvalidPaymentID      = errors.New("payment id must be a non-empty string")
	ErrInvalidProductID      = errors.New("product id must be a non-empty string")
	ErrInvalidPriceID        = errors.New("price id must be a non-empty string")
	ErrInvalidCheckoutParams = errors.New("invalid checkout session parameters")

	// ErrNoSignedInUser is returned when the user resolver cannot determine
	// the currently signed-in user.
	ErrNoSignedInUser = errors.New("no signed-in user available")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrPriceNotFound        = errors.New("price not found")

	// ErrInternal wraps any document store failure other than a missing
	// document. The underlying driver error stays on the chain for
	// errors.Is/errors.As inspection.
	ErrInternal = errors.New("internal document store error")

	// ErrCheckoutSessionFailed is returned when the sync backend reports an
	// error on a checkout session document.
	ErrCheckoutSessionFailed = errors.New("checkout session failed")

	// ErrCheckoutSessionTimeout is returned when the sync backend does not
	// populate the checkout session URL within the configured timeout.
	ErrCheckoutSessionTimeout = errors.New("timed out waiting for checkout session URL")

	// ErrCacheMiss is returned by EntityCache implementations when a key is absent.
	ErrCacheMiss = errors.New("entity cache miss")
)
