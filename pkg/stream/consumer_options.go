package stream

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Reference settings for the delivery cycle.
const (
	DefaultConsumerName     = "worker-1"
	DefaultPollInterval     = time.Second
	DefaultBlock            = time.Second
	DefaultBatchSize        = 20
	DefaultPendingBatchSize = 10
	DefaultHandlerTimeout   = 30 * time.Second
	DefaultDeadLetterStream = "kis-dead-letter"
)

// ConsumerOption is a functional option for configuring a Consumer.
type ConsumerOption func(*consumerOptions)

type consumerOptions struct {
	consumer         string
	pollInterval     time.Duration
	block            time.Duration
	batchSize        int64
	pendingBatchSize int64
	claimMinIdle     time.Duration
	maxDeliveries    int64
	deadLetterStream string
	handlerTimeout   time.Duration
	logger           *slog.Logger
	metrics          *Metrics
}

// WithConsumerName sets the consumer identity within the group. Two processes
// must never share one identity.
func WithConsumerName(name string) ConsumerOption {
	return func(o *consumerOptions) {
		if name != "" {
			o.consumer = name
		}
	}
}

// WithUniqueConsumerName gives the consumer a random identity derived from prefix.
func WithUniqueConsumerName(prefix string) ConsumerOption {
	return func(o *consumerOptions) {
		if prefix == "" {
			prefix = "worker"
		}
		o.consumer = prefix + "-" + uuid.NewString()
	}
}

// WithPollInterval sets the period between cycles.
func WithPollInterval(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithBlock sets how long a fresh read waits for new entries. Zero disables blocking.
func WithBlock(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		if d >= 0 {
			o.block = d
		}
	}
}

// WithBatchSize sets how many fresh entries are read per cycle.
func WithBatchSize(n int64) ConsumerOption {
	return func(o *consumerOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithPendingBatchSize sets how many pending entries are inspected per cycle.
func WithPendingBatchSize(n int64) ConsumerOption {
	return func(o *consumerOptions) {
		if n > 0 {
			o.pendingBatchSize = n
		}
	}
}

// WithClaimMinIdle sets the minimum time an entry must sit pending before it
// is reclaimed. Zero reclaims immediately, which may steal work from a slow
// but alive consumer.
func WithClaimMinIdle(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		if d >= 0 {
			o.claimMinIdle = d
		}
	}
}

// WithDeadLetter routes entries delivered maxDeliveries times to stream
// instead of reclaiming them again. A zero maxDeliveries disables the route.
func WithDeadLetter(stream string, maxDeliveries int64) ConsumerOption {
	return func(o *consumerOptions) {
		if stream != "" {
			o.deadLetterStream = stream
		}
		if maxDeliveries >= 0 {
			o.maxDeliveries = maxDeliveries
		}
	}
}

// WithHandlerTimeout bounds a single dispatch.
func WithHandlerTimeout(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		if d > 0 {
			o.handlerTimeout = d
		}
	}
}

// WithConsumerLogger sets the logger for the consumer.
func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(o *consumerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConsumerMetrics sets the collectors updated by the consumer.
func WithConsumerMetrics(m *Metrics) ConsumerOption {
	return func(o *consumerOptions) {
		o.metrics = m
	}
}
