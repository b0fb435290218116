package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Stream records the stream key under the key "stream".
func Stream(name string) slog.Attr {
	return slog.String("stream", name)
}

// Group records the consumer group under the key "group".
func Group(name string) slog.Attr {
	return slog.String("group", name)
}

// Consumer records the consumer identity under the key "consumer".
func Consumer(name string) slog.Attr {
	return slog.String("consumer", name)
}

// EntryID records a stream entry id under the key "entry_id".
func EntryID(id string) slog.Attr {
	return slog.String("entry_id", id)
}

// Retry marks whether a delivery came from the reclaim pass.
func Retry(retry bool) slog.Attr {
	return slog.Bool("retry", retry)
}

// Deliveries records how many times an entry has been delivered.
func Deliveries(n int64) slog.Attr {
	return slog.Int64("deliveries", n)
}

// Count records a generic counter under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// EnvelopeType records the work item discriminator under the key "type".
func EnvelopeType(t string) slog.Attr {
	return slog.String("type", t)
}

// StockCode records an instrument code under the key "stock_code".
func StockCode(code string) slog.Attr {
	return slog.String("stock_code", code)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
