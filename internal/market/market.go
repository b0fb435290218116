// Package market holds the instrument domain and the ports the request
// pipeline calls to refresh it.
package market

import (
	"context"
	"time"
)

// Sign codes reported with a price change.
const (
	SignUpperLimit = "1"
	SignRise       = "2"
	SignFlat       = "3"
	SignLowerLimit = "4"
	SignFall       = "5"
)

// Quote is a current price snapshot for one instrument.
type Quote struct {
	Price        int64
	ChangeAmount int64
	Sign         string
	ChangeRate   float64
}

// Instrument is a persisted listed stock.
type Instrument struct {
	Code         string
	Name         string
	Price        int64
	ChangeAmount int64
	Sign         string
	ChangeRate   float64
	UpdatedAt    time.Time
}

// ApplyQuote copies the price fields of q onto the instrument and stamps it with at.
func (i *Instrument) ApplyQuote(q Quote, at time.Time) {
	i.Price = q.Price
	i.ChangeAmount = q.ChangeAmount
	i.Sign = q.Sign
	i.ChangeRate = q.ChangeRate
	i.UpdatedAt = at
}

// FxInfo is the latest reading of a currency pair or index.
type FxInfo struct {
	Type         string
	Code         string
	Name         string
	Price        float64
	ChangeAmount float64
	Sign         string
	ChangeRate   float64
}

// InstrumentRepository loads and persists instruments.
type InstrumentRepository interface {
	// LoadInstrument returns ErrInstrumentNotFound when no instrument has code.
	LoadInstrument(ctx context.Context, code string) (Instrument, error)
	SaveInstrumentPrice(ctx context.Context, instrument Instrument) error
}

// QuoteFetcher looks up the current quote of a stock.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, code string) (Quote, error)
}

// FxFetcher looks up a currency pair.
type FxFetcher interface {
	FetchFxInfo(ctx context.Context, fxType, fxCode string) (FxInfo, error)
}
