// Package marketdata adapts the KIS open API client to the market ports.
package marketdata

import (
	"context"

	"github.com/parkstar12/newstoss/internal/market"
	"github.com/parkstar12/newstoss/pkg/kis"
)

type kisClient interface {
	InquirePrice(ctx context.Context, code string) (kis.StockPrice, error)
	InquireFx(ctx context.Context, fxType, fxCode string) (kis.FxPrice, error)
}

// KIS implements market.QuoteFetcher and market.FxFetcher.
type KIS struct {
	client kisClient
}

// NewKIS wraps client.
func NewKIS(client kisClient) *KIS {
	return &KIS{client: client}
}

var (
	_ market.QuoteFetcher = (*KIS)(nil)
	_ market.FxFetcher    = (*KIS)(nil)
)

// FetchQuote returns the current quote of the stock with code.
func (k *KIS) FetchQuote(ctx context.Context, code string) (market.Quote, error) {
	p, err := k.client.InquirePrice(ctx, code)
	if err != nil {
		return market.Quote{}, err
	}
	return market.Quote{
		Price:        p.Price,
		ChangeAmount: p.ChangeAmount,
		Sign:         p.Sign,
		ChangeRate:   p.ChangeRate,
	}, nil
}

// FetchFxInfo returns the latest reading of the pair.
func (k *KIS) FetchFxInfo(ctx context.Context, fxType, fxCode string) (market.FxInfo, error) {
	p, err := k.client.InquireFx(ctx, fxType, fxCode)
	if err != nil {
		return market.FxInfo{}, err
	}
	return market.FxInfo{
		Type:         p.Type,
		Code:         p.Code,
		Name:         p.Name,
		Price:        p.Price,
		ChangeAmount: p.ChangeAmount,
		Sign:         p.Sign,
		ChangeRate:   p.ChangeRate,
	}, nil
}
