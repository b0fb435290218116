package stream

import (
	"context"
	"fmt"
	"time"
)

// Default admission settings.
const (
	DefaultDedupTTL    = 30 * time.Second
	DefaultDedupPrefix = "stream-dedup"
)

// Gate suppresses repeated admissions of the same logical key within a TTL
// window. The window is opened by an atomic set-if-absent on a marker key,
// so concurrent callers racing on one identifier admit exactly once.
type Gate struct {
	store  MarkerStore
	ttl    time.Duration
	prefix string
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithDedupTTL sets how long an admission suppresses equivalent requests.
func WithDedupTTL(ttl time.Duration) GateOption {
	return func(g *Gate) {
		g.ttl = ttl
	}
}

// WithDedupPrefix sets the marker key prefix.
func WithDedupPrefix(prefix string) GateOption {
	return func(g *Gate) {
		if prefix != "" {
			g.prefix = prefix
		}
	}
}

// NewGate creates an admission gate over store. A non-positive TTL is rejected
// with ErrInvalidTTL.
func NewGate(store MarkerStore, opts ...GateOption) (*Gate, error) {
	if store == nil {
		return nil, ErrStoreNil
	}

	g := &Gate{
		store:  store,
		ttl:    DefaultDedupTTL,
		prefix: DefaultDedupPrefix,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.ttl <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTTL, g.ttl)
	}
	return g, nil
}

// Admit reports whether this call is the first admission of (domain,
// identifier) within the TTL window. Callers must not enqueue on false.
// Markers expire on their own and are never deleted.
func (g *Gate) Admit(ctx context.Context, domain, identifier string) (bool, error) {
	if domain == "" || identifier == "" {
		return false, ErrEmptyKey
	}

	key := g.Key(domain, identifier)
	ok, err := g.store.SetIfAbsent(ctx, key, g.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to set dedup marker %q: %w", key, err)
	}
	return ok, nil
}

// Key returns the marker key for (domain, identifier).
func (g *Gate) Key(domain, identifier string) string {
	return g.prefix + ":" + domain + ":" + identifier
}

// TTL returns the dedup window.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}
