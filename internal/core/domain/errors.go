package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrKeyInactive         = errors.New("api key is not active")
	ErrKeyExpired          = errors.New("api key has expired")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrForbidden           = errors.New("session belongs to another tenant")
	ErrSessionNotConnected = errors.New("session is not connected")
	ErrInvalidInput        = errors.New("invalid input")
)

// ErrTransport wraps any failure surfaced by the messaging transport during a
// send. Sends are not idempotent, so callers must not retry blindly.
type ErrTransport struct {
	Err error
}

func (e *ErrTransport) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}
