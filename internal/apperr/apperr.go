// Package apperr defines the error kinds the gateway surfaces to callers.
// Store errors are translated into these before leaving the service layer;
// only ErrUnavailable is retried internally.
package apperr

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("expired")
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("unavailable")
	ErrCorrupt         = errors.New("corrupt")
	ErrConflict        = errors.New("conflict")
)

// Kind returns the wire name for a taxonomy error, or "internal" for
// anything outside the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrCorrupt):
		return "corrupt"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// Retryable reports whether an operation that failed with err may be retried.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
