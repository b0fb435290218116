package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"time"

	"github.com/parkstar12/newstoss/pkg/logger"
)

// Consumer reads a stream through a consumer group, dispatches every entry
// and acknowledges it on success. Each cycle first reads fresh entries and
// then reclaims entries that are still pending for the group, so a crashed or
// failed delivery is retried on the next cycle. Cycles never overlap: a cycle
// that outlasts the poll interval makes the ticker drop ticks.
type Consumer struct {
	store      GroupStore
	dispatcher Dispatcher

	stream   string
	group    string
	consumer string

	pollInterval     time.Duration
	block            time.Duration
	batchSize        int64
	pendingBatchSize int64
	claimMinIdle     time.Duration
	maxDeliveries    int64
	deadLetterStream string
	handlerTimeout   time.Duration

	logger  *slog.Logger
	metrics *Metrics
}

// NewConsumer creates a consumer of stream within group.
func NewConsumer(store GroupStore, dispatcher Dispatcher, stream, group string, opts ...ConsumerOption) (*Consumer, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if dispatcher == nil {
		return nil, ErrDispatcherNil
	}
	if stream == "" {
		return nil, ErrEmptyStream
	}
	if group == "" {
		return nil, ErrEmptyGroup
	}

	options := &consumerOptions{
		consumer:         DefaultConsumerName,
		pollInterval:     DefaultPollInterval,
		block:            DefaultBlock,
		batchSize:        DefaultBatchSize,
		pendingBatchSize: DefaultPendingBatchSize,
		deadLetterStream: DefaultDeadLetterStream,
		handlerTimeout:   DefaultHandlerTimeout,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Consumer{
		store:            store,
		dispatcher:       dispatcher,
		stream:           stream,
		group:            group,
		consumer:         options.consumer,
		pollInterval:     options.pollInterval,
		block:            options.block,
		batchSize:        options.batchSize,
		pendingBatchSize: options.pendingBatchSize,
		claimMinIdle:     options.claimMinIdle,
		maxDeliveries:    options.maxDeliveries,
		deadLetterStream: options.deadLetterStream,
		handlerTimeout:   options.handlerTimeout,
		logger: options.logger.With(
			logger.Component("stream-consumer"),
			logger.Stream(stream),
			logger.Group(group),
			logger.Consumer(options.consumer),
		),
		metrics: options.metrics,
	}, nil
}

// Name returns the consumer identity.
func (c *Consumer) Name() string {
	return c.consumer
}

// Start ensures the consumer group exists and runs cycles every poll
// interval until ctx is cancelled. Store errors abort only the current cycle.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.store.EnsureGroup(ctx, c.stream, c.group); err != nil {
		return fmt.Errorf("failed to create consumer group %q on stream %q: %w", c.group, c.stream, err)
	}

	c.logger.InfoContext(ctx, "consumer started",
		slog.Duration("poll_interval", c.pollInterval),
		slog.Int64("batch_size", c.batchSize),
		slog.Int64("max_deliveries", c.maxDeliveries))

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer shutting down")
			return ctx.Err()
		case <-ticker.C:
			c.runCycle(ctx)
		}
	}
}

// Run returns a function suitable for errgroup that stops cleanly on cancellation.
func (c *Consumer) Run(ctx context.Context) func() error {
	return func() error {
		if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func (c *Consumer) runCycle(ctx context.Context) {
	if err := c.Cycle(ctx); err != nil && ctx.Err() == nil {
		c.logger.ErrorContext(ctx, "consumer cycle aborted", logger.Error(err))
	}
}

// Cycle performs one fresh read pass followed by one reclaim pass.
func (c *Consumer) Cycle(ctx context.Context) error {
	start := time.Now()
	defer func() { c.metrics.observeCycle(time.Since(start)) }()

	if err := c.deliverNew(ctx); err != nil {
		return err
	}
	return c.reclaim(ctx)
}

func (c *Consumer) deliverNew(ctx context.Context) error {
	entries, err := c.store.ReadGroup(ctx, c.stream, c.group, c.consumer, c.batchSize, c.block)
	if err != nil {
		c.metrics.observeCycleError("read")
		return errors.Join(ErrRead, err)
	}
	if len(entries) > 0 {
		c.logger.DebugContext(ctx, "read new entries", logger.Count(len(entries)))
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.process(ctx, Delivery{Entry: e, Deliveries: 1}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Consumer) reclaim(ctx context.Context) error {
	pending, err := c.store.Pending(ctx, c.stream, c.group, c.pendingBatchSize)
	if err != nil {
		c.metrics.observeCycleError("pending")
		return errors.Join(ErrPending, err)
	}
	if len(pending) == 0 {
		return nil
	}

	c.logger.WarnContext(ctx, "pending entries found, reclaiming", logger.Count(len(pending)))

	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		claimed, err := c.store.Claim(ctx, c.stream, c.group, c.consumer, c.claimMinIdle, p.ID)
		if err != nil {
			c.metrics.observeCycleError("claim")
			return errors.Join(ErrClaim, fmt.Errorf("entry %s: %w", p.ID, err))
		}
		if len(claimed) == 0 {
			// Not idle long enough, or trimmed away and released by the store.
			continue
		}

		entry := claimed[0]
		if c.maxDeliveries > 0 && p.Deliveries >= c.maxDeliveries {
			if err := c.deadLetter(ctx, entry, p.Deliveries); err != nil {
				return err
			}
			continue
		}

		if err := c.process(ctx, Delivery{Entry: entry, Retry: true, Deliveries: p.Deliveries + 1}); err != nil {
			return err
		}
	}
	return nil
}

// process dispatches d and acknowledges it on success. Dispatch failures are
// logged and swallowed so the entry stays pending; only store errors are returned.
func (c *Consumer) process(ctx context.Context, d Delivery) error {
	log := c.logger.With(logger.EntryID(d.ID), logger.Retry(d.Retry), logger.Deliveries(d.Deliveries))
	c.metrics.observeDelivered(d.Retry)

	// In-flight work finishes on shutdown, bounded by the handler timeout.
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.handlerTimeout)
	defer cancel()

	start := time.Now()
	if err := c.dispatch(hctx, d); err != nil {
		c.metrics.observeFailed(d.Retry)
		log.ErrorContext(ctx, "entry processing failed, left pending",
			logger.Duration(time.Since(start)),
			logger.Error(err))
		return nil
	}

	if _, err := c.store.Ack(hctx, c.stream, c.group, d.ID); err != nil {
		c.metrics.observeCycleError("ack")
		return errors.Join(ErrAck, fmt.Errorf("entry %s: %w", d.ID, err))
	}
	c.metrics.observeAcked(d.Retry)

	log.InfoContext(ctx, "entry processed", logger.Duration(time.Since(start)))
	return nil
}

func (c *Consumer) dispatch(ctx context.Context, d Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return c.dispatcher.Dispatch(ctx, d)
}

// deadLetter copies entry to the dead-letter stream and acknowledges the original.
func (c *Consumer) deadLetter(ctx context.Context, entry Entry, deliveries int64) error {
	values := maps.Clone(entry.Values)
	if values == nil {
		values = make(map[string]any, 2)
	}
	values["dlq_source_id"] = entry.ID
	values["dlq_deliveries"] = strconv.FormatInt(deliveries, 10)

	id, err := c.store.Append(ctx, c.deadLetterStream, values)
	if err != nil {
		c.metrics.observeCycleError("dead_letter")
		return errors.Join(ErrDeadLetter, fmt.Errorf("entry %s: %w", entry.ID, err))
	}
	if _, err := c.store.Ack(ctx, c.stream, c.group, entry.ID); err != nil {
		c.metrics.observeCycleError("ack")
		return errors.Join(ErrAck, fmt.Errorf("entry %s: %w", entry.ID, err))
	}
	c.metrics.observeDeadLettered()

	c.logger.WarnContext(ctx, "entry moved to dead-letter stream",
		logger.EntryID(entry.ID),
		logger.Deliveries(deliveries),
		slog.String("dead_letter_stream", c.deadLetterStream),
		slog.String("dead_letter_id", id))
	return nil
}
