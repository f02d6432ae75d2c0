package payments

import "sync"

// Component keys for the client's lazy-singleton registry.
const (
	subscriptionReaderKey = "subscription-reader"
	paymentReaderKey      = "payment-reader"
	productReaderKey      = "product-reader"
)

// registry memoizes lazily constructed components per client. Construction
// races are benign: the lock guarantees at most one stored instance per key,
// and a lost race only discards a redundant instance.
type registry struct {
	mu         sync.Mutex
	components map[string]any
}

func newRegistry() *registry {
	return &registry{components: make(map[string]any)}
}

// getOrCreate returns the memoized component for key, constructing and
// storing it on first use.
func (r *registry) getOrCreate(key string, create func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.components[key]; ok {
		return c
	}
	c := create()
	r.components[key] = c
	return c
}

// set seeds the registry with a pre-built component, replacing any stored
// instance. Used by client options to substitute custom implementations.
func (r *registry) set(key string, component any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[key] = component
}
