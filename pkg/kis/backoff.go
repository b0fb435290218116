package kis

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy calculates the delay before a retry.
// Implementations should be safe for concurrent use.
type BackoffStrategy interface {
	// NextInterval returns the delay before retry number attempt, starting at 1.
	NextInterval(attempt int) time.Duration
}

// ExponentialBackoff grows the delay geometrically with optional jitter.
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	JitterFactor    float64
}

// NextInterval returns min(InitialInterval * Multiplier^(attempt-1) * (1 ± JitterFactor), MaxInterval).
func (e ExponentialBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.InitialInterval
	if initial == 0 {
		initial = 200 * time.Millisecond
	}
	maxInterval := e.MaxInterval
	if maxInterval == 0 {
		maxInterval = 5 * time.Second
	}
	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if e.JitterFactor > 0 {
		interval *= 1 + (rand.Float64()*2-1)*e.JitterFactor
	}
	if interval > float64(maxInterval) {
		interval = float64(maxInterval)
	}
	return time.Duration(interval)
}

// FixedBackoff waits the same interval before every retry.
type FixedBackoff struct {
	Interval time.Duration
}

// NextInterval always returns Interval.
func (f FixedBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// DefaultBackoffStrategy returns exponential backoff sized for the KIS
// per-second rate limit.
func DefaultBackoffStrategy() BackoffStrategy {
	return ExponentialBackoff{
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
		JitterFactor:    0.1,
	}
}
