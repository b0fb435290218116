package kisrequest_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/internal/market"
	"github.com/parkstar12/newstoss/pkg/stream"
)

type MockQuoteFetcher struct {
	mock.Mock
}

func (m *MockQuoteFetcher) FetchQuote(ctx context.Context, code string) (market.Quote, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(market.Quote), args.Error(1)
}

type MockInstrumentRepository struct {
	mock.Mock
}

func (m *MockInstrumentRepository) LoadInstrument(ctx context.Context, code string) (market.Instrument, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(market.Instrument), args.Error(1)
}

func (m *MockInstrumentRepository) SaveInstrumentPrice(ctx context.Context, inst market.Instrument) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

type MockFxFetcher struct {
	mock.Mock
}

func (m *MockFxFetcher) FetchFxInfo(ctx context.Context, fxType, fxCode string) (market.FxInfo, error) {
	args := m.Called(ctx, fxType, fxCode)
	return args.Get(0).(market.FxInfo), args.Error(1)
}

type MockAdmitter struct {
	mock.Mock
}

func (m *MockAdmitter) Admit(ctx context.Context, domain, identifier string) (bool, error) {
	args := m.Called(ctx, domain, identifier)
	return args.Bool(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, msg stream.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRedisStore(t *testing.T) (*stream.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return stream.NewRedisStore(client), srv
}

// streamValues returns the field maps of every entry in key, oldest first.
func streamValues(t *testing.T, srv *miniredis.Miniredis, key string) []map[string]string {
	t.Helper()
	raw, err := srv.Stream(key)
	require.NoError(t, err)

	out := make([]map[string]string, 0, len(raw))
	for _, e := range raw {
		values := make(map[string]string, len(e.Values)/2)
		for i := 0; i+1 < len(e.Values); i += 2 {
			values[e.Values[i]] = e.Values[i+1]
		}
		out = append(out, values)
	}
	return out
}
