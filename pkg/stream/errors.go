package stream

import "errors"

var (
	// ErrStoreNil is returned when a nil store is provided to a constructor.
	ErrStoreNil = errors.New("store cannot be nil")

	// ErrDispatcherNil is returned when a consumer is built without a dispatcher.
	ErrDispatcherNil = errors.New("dispatcher cannot be nil")

	// ErrEmptyStream is returned when no stream name is configured.
	ErrEmptyStream = errors.New("stream name cannot be empty")

	// ErrEmptyGroup is returned when no consumer group is configured.
	ErrEmptyGroup = errors.New("consumer group cannot be empty")

	// ErrEmptyKey is returned when a dedup domain or identifier is empty.
	ErrEmptyKey = errors.New("dedup domain and identifier cannot be empty")

	// ErrInvalidTTL is returned when a dedup TTL is not positive.
	ErrInvalidTTL = errors.New("dedup ttl must be positive")

	// ErrInvalidMaxLen is returned when a retention cap is not positive.
	ErrInvalidMaxLen = errors.New("max length must be positive")

	// ErrEmptyMessage is returned when a message has no fields to append.
	ErrEmptyMessage = errors.New("message has no fields")

	// ErrRead is returned when reading new entries for the group fails.
	ErrRead = errors.New("failed to read entries for consumer group")

	// ErrPending is returned when listing the group's pending entries fails.
	ErrPending = errors.New("failed to list pending entries")

	// ErrClaim is returned when claiming a pending entry fails.
	ErrClaim = errors.New("failed to claim pending entry")

	// ErrAck is returned when acknowledging an entry fails.
	ErrAck = errors.New("failed to acknowledge entry")

	// ErrDeadLetter is returned when an entry cannot be moved to the dead-letter stream.
	ErrDeadLetter = errors.New("failed to move entry to dead-letter stream")

	// ErrTrim is returned when trimming the stream fails.
	ErrTrim = errors.New("failed to trim stream")

	// ErrPanic wraps a panic recovered from a dispatcher.
	ErrPanic = errors.New("panic in dispatcher")
)
