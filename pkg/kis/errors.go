package kis

import "errors"

// Errors returned by the client. Failures are wrapped with context so callers
// can classify them with errors.Is.
var (
	ErrMissingCredentials = errors.New("kis app key, app secret and access token are required")
	ErrInvalidBaseURL     = errors.New("invalid kis base URL")
	ErrEmptyCode          = errors.New("instrument code is required")
	ErrRequestFailed      = errors.New("kis request failed")
	ErrPermanentFailure   = errors.New("permanent kis failure")
	ErrTemporaryFailure   = errors.New("temporary kis failure")
	ErrTimeout            = errors.New("kis request timeout")
	ErrCircuitOpen        = errors.New("kis circuit breaker is open")
	ErrAPIError           = errors.New("kis api returned an error")
	ErrInvalidResponse    = errors.New("invalid kis response")
)

// IsCircuitOpen checks if an error indicates the circuit breaker is open.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
