package stream

import "context"

// Delivery is an entry handed to a Dispatcher together with how it was obtained.
type Delivery struct {
	Entry

	// Retry is true when the entry was reclaimed from the pending set rather
	// than read fresh.
	Retry bool

	// Deliveries counts attempts including this one.
	Deliveries int64
}

// Dispatcher processes one delivery. A nil error acknowledges the entry; any
// error leaves it pending for the reclaim pass.
type Dispatcher interface {
	Dispatch(ctx context.Context, d Delivery) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, d Delivery) error

func (f DispatcherFunc) Dispatch(ctx context.Context, d Delivery) error {
	return f(ctx, d)
}
