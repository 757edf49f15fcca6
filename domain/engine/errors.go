package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned for unusable engine parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput is returned for malformed call arguments
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyPool is returned when the sampler has no numbers left to pick
	ErrEmptyPool = errors.New("no available numbers to select from")

	// ErrFallbackExhausted is returned when the uniform fallback never satisfies the filters
	ErrFallbackExhausted = errors.New("fallback attempts exhausted")

	// ErrCancelled is returned when the context ends before all iterations ran
	ErrCancelled = errors.New("simulation cancelled")
)

// CancelledError reports how far a cancelled simulation got
type CancelledError struct {
	Completed int
	Requested int
	Err       error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("simulation cancelled after %d of %d iterations: %v", e.Completed, e.Requested, e.Err)
}

// Unwrap exposes both ErrCancelled and the underlying context error
func (e *CancelledError) Unwrap() []error {
	return []error{ErrCancelled, e.Err}
}
