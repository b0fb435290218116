package stream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/parkstar12/newstoss/pkg/logger"
)

// Reference retention settings.
const (
	DefaultTrimInterval = time.Minute
	DefaultMaxLen       = 1000
)

// Sweeper caps a stream's length on its own timer. Trimming ignores
// acknowledgement state: entries trimmed before they are processed are lost.
type Sweeper struct {
	store    Trimmer
	stream   string
	maxLen   int64
	approx   bool
	interval time.Duration
	logger   *slog.Logger
	metrics  *Metrics
}

// SweeperOption is a functional option for configuring a Sweeper.
type SweeperOption func(*Sweeper)

// WithMaxLen sets the retention cap.
func WithMaxLen(n int64) SweeperOption {
	return func(s *Sweeper) { s.maxLen = n }
}

// WithApproximateTrim lets the store keep slightly more than the cap in
// exchange for cheaper trimming.
func WithApproximateTrim(approx bool) SweeperOption {
	return func(s *Sweeper) { s.approx = approx }
}

// WithTrimInterval sets the period between sweeps.
func WithTrimInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSweeperLogger sets the logger for the sweeper.
func WithSweeperLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSweeperMetrics sets the collectors updated by the sweeper.
func WithSweeperMetrics(m *Metrics) SweeperOption {
	return func(s *Sweeper) { s.metrics = m }
}

// NewSweeper creates a retention sweeper for stream.
func NewSweeper(store Trimmer, stream string, opts ...SweeperOption) (*Sweeper, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if stream == "" {
		return nil, ErrEmptyStream
	}

	s := &Sweeper{
		store:    store,
		stream:   stream,
		maxLen:   DefaultMaxLen,
		interval: DefaultTrimInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxLen <= 0 {
		return nil, ErrInvalidMaxLen
	}
	s.logger = s.logger.With(logger.Component("stream-sweeper"), logger.Stream(stream))
	return s, nil
}

// Sweep trims the stream once and returns how many entries were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.store.Trim(ctx, s.stream, s.maxLen, s.approx)
	if err != nil {
		return 0, errors.Join(ErrTrim, err)
	}
	s.metrics.observeTrimmed(removed)

	s.logger.InfoContext(ctx, "stream trimmed",
		slog.Int64("removed", removed),
		slog.Int64("max_len", s.maxLen),
		slog.Bool("approximate", s.approx))
	return removed, nil
}

// Start sweeps every interval until ctx is cancelled. The first sweep
// happens one interval after start.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "sweep failed", logger.Error(err))
			}
		}
	}
}

// Run returns a function suitable for errgroup that stops cleanly on cancellation.
func (s *Sweeper) Run(ctx context.Context) func() error {
	return func() error {
		if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
