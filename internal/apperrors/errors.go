package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrTimeout indicates an upstream call did not answer within its deadline.
var ErrTimeout = errors.New("upstream timeout")

// NewNotFoundError wraps ErrNotFound with a descriptive message.
func NewNotFoundError(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// RateLimitError is returned when an upstream responds with HTTP 429.
// RetryAfter is zero when the upstream did not say how long to wait.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Provider)
}

// UpstreamError is returned for any non-success, non-429, non-404 upstream status.
type UpstreamError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream returned status %d", e.Provider, e.StatusCode)
}

// ConversionUnavailableError is returned when neither a live rate nor a
// fallback table entry exists for a currency pair.
type ConversionUnavailableError struct {
	From string
	To   string
}

func (e *ConversionUnavailableError) Error() string {
	return fmt.Sprintf("conversion not available for %s->%s", e.From, e.To)
}
