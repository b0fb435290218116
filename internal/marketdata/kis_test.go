package marketdata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/internal/market"
	"github.com/parkstar12/newstoss/internal/marketdata"
	"github.com/parkstar12/newstoss/pkg/kis"
)

type MockKISClient struct {
	mock.Mock
}

func (m *MockKISClient) InquirePrice(ctx context.Context, code string) (kis.StockPrice, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(kis.StockPrice), args.Error(1)
}

func (m *MockKISClient) InquireFx(ctx context.Context, fxType, fxCode string) (kis.FxPrice, error) {
	args := m.Called(ctx, fxType, fxCode)
	return args.Get(0).(kis.FxPrice), args.Error(1)
}

func TestKIS_FetchQuote(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := new(MockKISClient)
	client.On("InquirePrice", ctx, "005930").
		Return(kis.StockPrice{Code: "005930", Price: 71500, ChangeAmount: -500, Sign: "5", ChangeRate: -0.69}, nil).Once()
	client.On("InquirePrice", ctx, "000000").
		Return(kis.StockPrice{}, kis.ErrAPIError).Once()

	k := marketdata.NewKIS(client)

	q, err := k.FetchQuote(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, market.Quote{Price: 71500, ChangeAmount: -500, Sign: "5", ChangeRate: -0.69}, q)

	_, err = k.FetchQuote(ctx, "000000")
	assert.ErrorIs(t, err, kis.ErrAPIError)
	client.AssertExpectations(t)
}

func TestKIS_FetchFxInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := new(MockKISClient)
	client.On("InquireFx", ctx, "X", "FX@KRW").
		Return(kis.FxPrice{Type: "X", Code: "FX@KRW", Name: "USD/KRW", Price: 1375.2}, nil).Once()
	upstream := errors.New("timeout")
	client.On("InquireFx", ctx, "X", "FX@JPY").Return(kis.FxPrice{}, upstream).Once()

	k := marketdata.NewKIS(client)

	info, err := k.FetchFxInfo(ctx, "X", "FX@KRW")
	require.NoError(t, err)
	assert.Equal(t, market.FxInfo{Type: "X", Code: "FX@KRW", Name: "USD/KRW", Price: 1375.2}, info)

	_, err = k.FetchFxInfo(ctx, "X", "FX@JPY")
	assert.ErrorIs(t, err, upstream)
	client.AssertExpectations(t)
}
