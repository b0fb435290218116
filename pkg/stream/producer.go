package stream

import (
	"context"
	"fmt"
)

// Message is anything that can be flattened into stream entry fields.
type Message interface {
	Values() map[string]any
}

// Producer appends messages to the tail of one stream. It never waits for
// consumers; Publish returns once the store has assigned an entry id.
type Producer struct {
	store  Appender
	stream string
}

// NewProducer creates a producer for stream.
func NewProducer(store Appender, stream string) (*Producer, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if stream == "" {
		return nil, ErrEmptyStream
	}
	return &Producer{store: store, stream: stream}, nil
}

// Publish appends msg and returns the assigned entry id.
func (p *Producer) Publish(ctx context.Context, msg Message) (string, error) {
	if msg == nil {
		return "", ErrEmptyMessage
	}
	values := msg.Values()
	if len(values) == 0 {
		return "", ErrEmptyMessage
	}

	id, err := p.store.Append(ctx, p.stream, values)
	if err != nil {
		return "", fmt.Errorf("failed to append to stream %q: %w", p.stream, err)
	}
	return id, nil
}

// Stream returns the stream the producer appends to.
func (p *Producer) Stream() string {
	return p.stream
}
