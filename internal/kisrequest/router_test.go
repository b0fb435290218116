package kisrequest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/internal/kisrequest"
	"github.com/parkstar12/newstoss/internal/market"
	"github.com/parkstar12/newstoss/pkg/stream"
)

var refreshedAt = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

type routerDeps struct {
	quotes      *MockQuoteFetcher
	instruments *MockInstrumentRepository
	fx          *MockFxFetcher
}

func newRouter(t *testing.T) (*kisrequest.Router, routerDeps) {
	t.Helper()
	deps := routerDeps{
		quotes:      new(MockQuoteFetcher),
		instruments: new(MockInstrumentRepository),
		fx:          new(MockFxFetcher),
	}
	r, err := kisrequest.NewRouter(deps.quotes, deps.instruments, deps.fx,
		kisrequest.WithRouterLogger(quietLogger()),
		kisrequest.WithRouterClock(func() time.Time { return refreshedAt }),
	)
	require.NoError(t, err)
	return r, deps
}

func delivery(values map[string]any) stream.Delivery {
	return stream.Delivery{Entry: stream.Entry{ID: "1714640000000-0", Values: values}, Deliveries: 1}
}

func TestNewRouter(t *testing.T) {
	t.Parallel()

	_, err := kisrequest.NewRouter(nil, new(MockInstrumentRepository), new(MockFxFetcher))
	assert.ErrorIs(t, err, kisrequest.ErrNilDependency)
	_, err = kisrequest.NewRouter(new(MockQuoteFetcher), nil, new(MockFxFetcher))
	assert.ErrorIs(t, err, kisrequest.ErrNilDependency)
	_, err = kisrequest.NewRouter(new(MockQuoteFetcher), new(MockInstrumentRepository), nil)
	assert.ErrorIs(t, err, kisrequest.ErrNilDependency)
}

func TestRouter_Stock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	values := map[string]any{"type": "stock", "stockCode": "005930"}

	t.Run("applies quote and saves once", func(t *testing.T) {
		t.Parallel()
		r, deps := newRouter(t)

		deps.quotes.On("FetchQuote", mock.Anything, "005930").
			Return(market.Quote{Price: 71500, ChangeAmount: -500, Sign: market.SignFall, ChangeRate: -0.69}, nil).Once()
		deps.instruments.On("LoadInstrument", mock.Anything, "005930").
			Return(market.Instrument{Code: "005930", Name: "Samsung Electronics", Price: 72000}, nil).Once()
		deps.instruments.On("SaveInstrumentPrice", mock.Anything, market.Instrument{
			Code:         "005930",
			Name:         "Samsung Electronics",
			Price:        71500,
			ChangeAmount: -500,
			Sign:         market.SignFall,
			ChangeRate:   -0.69,
			UpdatedAt:    refreshedAt,
		}).Return(nil).Once()

		require.NoError(t, r.Dispatch(ctx, delivery(values)))
		deps.quotes.AssertExpectations(t)
		deps.instruments.AssertExpectations(t)
		deps.fx.AssertNotCalled(t, "FetchFxInfo", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing instrument fails without saving", func(t *testing.T) {
		t.Parallel()
		r, deps := newRouter(t)

		deps.quotes.On("FetchQuote", mock.Anything, "005930").Return(market.Quote{Price: 1}, nil).Maybe()
		deps.instruments.On("LoadInstrument", mock.Anything, "005930").
			Return(market.Instrument{}, market.ErrInstrumentNotFound).Once()

		err := r.Dispatch(ctx, delivery(values))
		assert.ErrorIs(t, err, market.ErrInstrumentNotFound)
		deps.instruments.AssertNotCalled(t, "SaveInstrumentPrice", mock.Anything, mock.Anything)
	})

	t.Run("quote failure fails without saving", func(t *testing.T) {
		t.Parallel()
		r, deps := newRouter(t)

		quoteErr := errors.New("rate limited")
		deps.quotes.On("FetchQuote", mock.Anything, "005930").Return(market.Quote{}, quoteErr).Once()
		deps.instruments.On("LoadInstrument", mock.Anything, "005930").
			Return(market.Instrument{Code: "005930"}, nil).Maybe()

		err := r.Dispatch(ctx, delivery(values))
		assert.ErrorIs(t, err, quoteErr)
		deps.instruments.AssertNotCalled(t, "SaveInstrumentPrice", mock.Anything, mock.Anything)
	})

	t.Run("save failure is returned", func(t *testing.T) {
		t.Parallel()
		r, deps := newRouter(t)

		saveErr := errors.New("deadlock detected")
		deps.quotes.On("FetchQuote", mock.Anything, "005930").Return(market.Quote{Price: 1}, nil).Once()
		deps.instruments.On("LoadInstrument", mock.Anything, "005930").Return(market.Instrument{Code: "005930"}, nil).Once()
		deps.instruments.On("SaveInstrumentPrice", mock.Anything, mock.Anything).Return(saveErr).Once()

		assert.ErrorIs(t, r.Dispatch(ctx, delivery(values)), saveErr)
	})
}

func TestRouter_Fx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	values := map[string]any{"type": "fx", "fxType": "USD", "fxCode": "KRW"}

	t.Run("invokes lookup", func(t *testing.T) {
		t.Parallel()
		r, deps := newRouter(t)
		deps.fx.On("FetchFxInfo", mock.Anything, "USD", "KRW").
			Return(market.FxInfo{Type: "USD", Code: "KRW", Price: 1375.2}, nil).Once()

		require.NoError(t, r.Dispatch(ctx, delivery(values)))
		deps.fx.AssertExpectations(t)
		deps.quotes.AssertNotCalled(t, "FetchQuote", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		t.Parallel()
		r, deps := newRouter(t)
		fxErr := errors.New("upstream 500")
		deps.fx.On("FetchFxInfo", mock.Anything, "USD", "KRW").Return(market.FxInfo{}, fxErr).Once()

		assert.ErrorIs(t, r.Dispatch(ctx, delivery(values)), fxErr)
	})
}

func TestRouter_Malformed(t *testing.T) {
	t.Parallel()
	r, deps := newRouter(t)

	err := r.Dispatch(context.Background(), delivery(map[string]any{"type": "stock"}))
	assert.ErrorIs(t, err, kisrequest.ErrMalformedEnvelope)
	deps.quotes.AssertNotCalled(t, "FetchQuote", mock.Anything, mock.Anything)
}

func TestPipeline_UnknownInstrumentStaysPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newRedisStore(t)
	require.NoError(t, store.EnsureGroup(ctx, requestStream, "kis-group"))
	p := newPipeline(t, store)

	r, deps := newRouter(t)
	deps.quotes.On("FetchQuote", mock.Anything, "999999").Return(market.Quote{Price: 1}, nil).Maybe()
	deps.instruments.On("LoadInstrument", mock.Anything, "999999").Return(market.Instrument{}, market.ErrInstrumentNotFound)

	c, err := stream.NewConsumer(store, r, requestStream, "kis-group",
		stream.WithBlock(0),
		stream.WithConsumerLogger(quietLogger()),
	)
	require.NoError(t, err)

	ok, err := p.RequestStock(ctx, "999999")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Cycle(ctx))

	// Fresh delivery and the same-cycle retry both fail.
	pending, err := store.Pending(ctx, requestStream, "kis-group", 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].Deliveries)

	require.NoError(t, c.Cycle(ctx))
	pending, err = store.Pending(ctx, requestStream, "kis-group", 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].Deliveries)
	deps.instruments.AssertNotCalled(t, "SaveInstrumentPrice", mock.Anything, mock.Anything)
}
