package kisrequest

import (
	"context"
	"log/slog"

	"github.com/parkstar12/newstoss/pkg/logger"
	"github.com/parkstar12/newstoss/pkg/stream"
)

// DedupDomain is the admission domain of stock requests.
const DedupDomain = "stock"

type admitter interface {
	Admit(ctx context.Context, domain, identifier string) (bool, error)
}

type publisher interface {
	Publish(ctx context.Context, msg stream.Message) (string, error)
}

// Publisher admits requests and appends them to the request stream.
// Stock requests go through the dedup gate; fx requests never do.
type Publisher struct {
	gate     admitter
	producer publisher
	logger   *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger for the publisher.
func WithPublisherLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPublisher creates a publisher over an admission gate and a producer.
func NewPublisher(gate admitter, producer publisher, opts ...PublisherOption) (*Publisher, error) {
	if gate == nil || producer == nil {
		return nil, ErrNilDependency
	}

	p := &Publisher{gate: gate, producer: producer, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("kis-publisher"))
	return p, nil
}

// RequestStock enqueues a quote refresh for code unless one was admitted
// within the dedup window. It reports whether an entry was appended.
func (p *Publisher) RequestStock(ctx context.Context, code string) (bool, error) {
	env, err := NewStock(code)
	if err != nil {
		return false, err
	}
	code = env.Payload().(Stock).Code

	ok, err := p.gate.Admit(ctx, DedupDomain, code)
	if err != nil {
		p.logger.ErrorContext(ctx, "dedup gate unavailable, request dropped",
			logger.StockCode(code), logger.Error(err))
		return false, err
	}
	if !ok {
		p.logger.DebugContext(ctx, "duplicate stock request suppressed", logger.StockCode(code))
		return false, nil
	}

	id, err := p.producer.Publish(ctx, env)
	if err != nil {
		return false, err
	}

	p.logger.InfoContext(ctx, "stock request enqueued", logger.StockCode(code), logger.EntryID(id))
	return true, nil
}

// RequestFx enqueues an fx lookup and returns the entry id. Repeated calls
// append repeated entries.
func (p *Publisher) RequestFx(ctx context.Context, fxType, fxCode string) (string, error) {
	env, err := NewFx(fxType, fxCode)
	if err != nil {
		return "", err
	}

	id, err := p.producer.Publish(ctx, env)
	if err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "fx request enqueued",
		slog.String("fx_type", fxType),
		slog.String("fx_code", fxCode),
		logger.EntryID(id))
	return id, nil
}
