package kisrequest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parkstar12/newstoss/internal/market"
	"github.com/parkstar12/newstoss/pkg/logger"
	"github.com/parkstar12/newstoss/pkg/stream"
)

// Router dispatches consumed request entries to the market ports.
// It implements stream.Dispatcher.
type Router struct {
	quotes      market.QuoteFetcher
	instruments market.InstrumentRepository
	fx          market.FxFetcher
	now         func() time.Time
	logger      *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger for the router.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRouterClock sets the clock used to stamp refreshed instruments.
func WithRouterClock(now func() time.Time) RouterOption {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRouter creates a router over the three market ports.
func NewRouter(quotes market.QuoteFetcher, instruments market.InstrumentRepository, fx market.FxFetcher, opts ...RouterOption) (*Router, error) {
	if quotes == nil || instruments == nil || fx == nil {
		return nil, ErrNilDependency
	}

	r := &Router{
		quotes:      quotes,
		instruments: instruments,
		fx:          fx,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("kis-router"))
	return r, nil
}

// Dispatch decodes the entry and invokes exactly one downstream path.
// Any error leaves the entry pending for reclaim.
func (r *Router) Dispatch(ctx context.Context, d stream.Delivery) error {
	env, err := Decode(d.Values)
	if err != nil {
		return err
	}

	switch p := env.Payload().(type) {
	case Stock:
		return r.refreshStock(ctx, d, p)
	case Fx:
		return r.lookupFx(ctx, d, p)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, p)
	}
}

// refreshStock fetches the quote and the persisted instrument concurrently,
// then writes the new price in a single repository call.
func (r *Router) refreshStock(ctx context.Context, d stream.Delivery, s Stock) error {
	var (
		quote market.Quote
		inst  market.Instrument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := r.quotes.FetchQuote(gctx, s.Code)
		if err != nil {
			return fmt.Errorf("failed to fetch quote for %s: %w", s.Code, err)
		}
		quote = q
		return nil
	})
	g.Go(func() error {
		i, err := r.instruments.LoadInstrument(gctx, s.Code)
		if err != nil {
			return fmt.Errorf("failed to load instrument %s: %w", s.Code, err)
		}
		inst = i
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	inst.ApplyQuote(quote, r.now())
	if err := r.instruments.SaveInstrumentPrice(ctx, inst); err != nil {
		return fmt.Errorf("failed to save instrument %s: %w", s.Code, err)
	}

	r.logger.InfoContext(ctx, "stock price refreshed",
		logger.StockCode(s.Code),
		logger.EntryID(d.ID),
		logger.Retry(d.Retry),
		slog.Int64("price", inst.Price))
	return nil
}

// lookupFx invokes the fx port. The result is logged and not persisted.
func (r *Router) lookupFx(ctx context.Context, d stream.Delivery, f Fx) error {
	info, err := r.fx.FetchFxInfo(ctx, f.Type, f.Code)
	if err != nil {
		return fmt.Errorf("failed to fetch fx %s/%s: %w", f.Type, f.Code, err)
	}

	r.logger.InfoContext(ctx, "fx info fetched",
		slog.String("fx_type", f.Type),
		slog.String("fx_code", f.Code),
		slog.Float64("price", info.Price),
		logger.EntryID(d.ID),
		logger.Retry(d.Retry))
	return nil
}
