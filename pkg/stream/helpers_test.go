package stream_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/pkg/stream"
)

const (
	testStream = "kis-api-request"
	testGroup  = "kis-group"
)

// newRedisStore starts a private miniredis server for one test.
func newRedisStore(t *testing.T) (*stream.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return stream.NewRedisStore(client), srv
}

// entries returns the stream contents oldest first.
func entries(t *testing.T, srv *miniredis.Miniredis, key string) []stream.Entry {
	t.Helper()
	raw, err := srv.Stream(key)
	require.NoError(t, err)

	out := make([]stream.Entry, 0, len(raw))
	for _, e := range raw {
		values := make(map[string]any, len(e.Values)/2)
		for i := 0; i+1 < len(e.Values); i += 2 {
			values[e.Values[i]] = e.Values[i+1]
		}
		out = append(out, stream.Entry{ID: e.ID, Values: values})
	}
	return out
}

type testMessage map[string]any

func (m testMessage) Values() map[string]any { return m }

// recorder is a dispatcher that records deliveries and fails or panics on demand.
type recorder struct {
	mu         sync.Mutex
	deliveries []stream.Delivery
	fail       func(d stream.Delivery) error
}

func (r *recorder) Dispatch(_ context.Context, d stream.Delivery) error {
	r.mu.Lock()
	r.deliveries = append(r.deliveries, d)
	fail := r.fail
	r.mu.Unlock()

	if fail != nil {
		return fail(d)
	}
	return nil
}

func (r *recorder) Deliveries() []stream.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stream.Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

func (r *recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}
