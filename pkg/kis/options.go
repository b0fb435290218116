package kis

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithBackoff sets the retry backoff strategy.
func WithBackoff(b BackoffStrategy) Option {
	return func(cl *Client) {
		if b != nil {
			cl.backoff = b
		}
	}
}

// WithCircuitBreaker replaces the circuit breaker. A nil breaker disables it.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(cl *Client) {
		cl.breaker = cb
	}
}

// WithClock sets the clock used for date range parameters.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) {
		if now != nil {
			cl.now = now
		}
	}
}

// WithLogger sets the logger for the client.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}
