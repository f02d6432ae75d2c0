// Package docstore provides connection management for the document database
// backing stripekit, plus the typed hierarchical Path value used to address
// and cross-reference documents.
//
// The package wraps the official MongoDB driver and adds:
//
//   - Robust Connect which retries the connection using the supplied
//     configuration.
//   - Health-check helpers to integrate the store into liveness/readiness
//     probes.
//   - The Path type modelling hierarchical document paths of alternating
//     collection/document segments, mirroring the layout written by the
//     Stripe sync backend ("customers/{uid}/subscriptions/{id}").
//
// Configuration is described by the Config struct whose fields are populated
// from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	import "github.com/dmitrymomot/stripekit/pkg/docstore"
//
//	cfg := docstore.Config{
//		ConnectionURL: "mongodb://localhost:27017",
//	}
//
//	db, err := docstore.ConnectDatabase(context.Background(), cfg, "billing")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Document layout
//
// Each document's primary key is its full slash path. A document path has an
// odd/even structure: collection names at even positions, document keys at
// odd positions. Path.Collection flattens the collection segments into the
// physical collection name, so "customers/u1/subscriptions/s1" is stored in
// the "customers.subscriptions" collection under the key
// "customers/u1/subscriptions/s1".
//
// Reference-typed fields store the slash form of the referenced document's
// path. Path accessors resolve identifiers out of references:
//
//	ref, _ := docstore.ParsePath("products/prod_123/prices/price_456")
//	ref.ID()      // "price_456"
//	ref.KeyUp(2)  // "prod_123"
//
// # Errors
//
// The package defines sentinel errors (ErrFailedToConnect,
// ErrHealthcheckFailed, ErrInvalidPath) that wrap underlying causes using
// errors.Join, so callers can match them with errors.Is.
package docstore
