// Package payments provides read access to the Stripe billing records that
// a sync backend mirrors into the document store, plus checkout session
// creation for starting new purchases.
//
// The package is a client library, not a billing engine: subscriptions,
// payments and the product catalog are written by the sync backend, and this
// package converts the stored snake_case documents into stable, read-only Go
// values. There is deliberately no inverse conversion: domain values are
// never written back to the store.
//
// # Architecture
//
//   - Client: session object bound to a database handle; memoizes its
//     readers in a lazy-singleton component registry.
//   - UserResolver: collaborator supplying the currently signed-in user;
//     the default reads the user ID from context.
//   - SubscriptionReader / PaymentReader: polymorphic access objects with
//     one store-backed production implementation each; tests substitute
//     fakes through client options.
//   - EntityCache: optional read-through cache for catalog entities, with a
//     Redis-backed implementation.
//
// # Document layout
//
// Records live under slash-path keys (see pkg/docstore):
//
//	customers/{uid}/subscriptions/{subscriptionId}
//	customers/{uid}/payments/{paymentId}
//	customers/{uid}/checkout_sessions/{sessionId}
//	products/{productId}
//	products/{productId}/prices/{priceId}
//
// Reference-typed fields (price, product, prices) store the slash path of
// the referenced document; identifiers are resolved positionally from those
// paths.
//
// # Quick Start
//
//	import (
//		"github.com/dmitrymomot/stripekit/pkg/docstore"
//		"github.com/dmitrymomot/stripekit/pkg/payments"
//	)
//
//	db, err := docstore.ConnectDatabase(ctx, storeCfg, "billing")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client := payments.New(db, paymentsCfg)
//
//	// The HTTP layer puts the authenticated user into the context.
//	ctx = payments.SetUserToContext(ctx, "uid_123")
//
//	sub, err := client.GetCurrentUserSubscription(ctx, "sub_456")
//	switch {
//	case errors.Is(err, payments.ErrSubscriptionNotFound):
//		// no such subscription for this user
//	case errors.Is(err, payments.ErrInternal):
//		// store failure; the driver error is on the chain
//	case err == nil:
//		fmt.Println(sub.Status, sub.PriceID)
//	}
//
// # Watching for changes
//
// OnCurrentUserSubscriptionUpdate tails the store's change stream for the
// current user's subscriptions:
//
//	go func() {
//		_ = client.OnCurrentUserSubscriptionUpdate(ctx, func(ev payments.SubscriptionEvent) {
//			fmt.Println(ev.Type, ev.Path.ID())
//		})
//	}()
//
// # Checkout
//
// CreateCheckoutSession writes a session document and waits for the sync
// backend to attach the hosted checkout URL:
//
//	session, err := client.CreateCheckoutSession(ctx, payments.CheckoutSessionParams{
//		ProductID:  "prod_123",
//		PriceID:    "price_456",
//		SuccessURL: "https://app.example.com/success",
//		CancelURL:  "https://app.example.com/cancel",
//	})
//	if err == nil {
//		http.Redirect(w, r, session.URL, http.StatusSeeOther)
//	}
//
// # Error Handling
//
// Sentinel errors wrap underlying causes with errors.Join, so both the kind
// and the cause are matchable:
//
//	if errors.Is(err, payments.ErrInternal) {
//		var cmdErr mongo.CommandError
//		if errors.As(err, &cmdErr) {
//			// inspect the driver failure
//		}
//	}
//
// Argument validation failures (blank identifiers, incomplete checkout
// params) are raised before any store interaction.
package payments
