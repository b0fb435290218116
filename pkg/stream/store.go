package stream

import (
	"context"
	"time"
)

// Entry is a single record read from a stream.
type Entry struct {
	ID     string
	Values map[string]any
}

// PendingEntry is the store's view of an entry that was delivered to a group
// member but not yet acknowledged.
type PendingEntry struct {
	ID         string
	Consumer   string
	Idle       time.Duration
	Deliveries int64
}

// MarkerStore creates short lived existence markers.
type MarkerStore interface {
	// SetIfAbsent creates key with the given TTL and reports whether this call created it.
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Appender appends entries to the tail of a stream.
type Appender interface {
	// Append adds values as a new entry and returns the id assigned by the store.
	Append(ctx context.Context, stream string, values map[string]any) (string, error)
}

// GroupStore covers the consumer group operations used by Consumer.
type GroupStore interface {
	Appender

	// EnsureGroup creates the group (and the stream) if it does not exist yet.
	// New groups start at the beginning of the stream.
	EnsureGroup(ctx context.Context, stream, group string) error

	// ReadGroup returns up to count entries never delivered to the group,
	// waiting up to block when none are available. A non-positive block does not wait.
	ReadGroup(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Entry, error)

	// Pending lists up to count pending entries of the group, oldest first.
	Pending(ctx context.Context, stream, group string, count int64) ([]PendingEntry, error)

	// Claim transfers ownership of the given pending entries to consumer if
	// they have been idle for at least minIdle, and returns the claimed entries.
	// Entries that no longer exist in the stream are not returned.
	Claim(ctx context.Context, stream, group, consumer string, minIdle time.Duration, ids ...string) ([]Entry, error)

	// Ack removes entries from the group's pending set and returns how many were removed.
	Ack(ctx context.Context, stream, group string, ids ...string) (int64, error)
}

// Trimmer caps the length of a stream.
type Trimmer interface {
	// Trim discards the oldest entries so at most maxLen remain and returns
	// how many were removed. With approx set the store may keep slightly more.
	Trim(ctx context.Context, stream string, maxLen int64, approx bool) (int64, error)

	// Len returns the current number of entries in the stream.
	Len(ctx context.Context, stream string) (int64, error)
}

// Store is implemented by RedisStore.
type Store interface {
	MarkerStore
	GroupStore
	Trimmer
}
