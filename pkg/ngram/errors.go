package ngram

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidWindowSize      = errors.New("ngram: window size must be at least 1")
	ErrIncompatibleWindowSize = errors.New("ngram: window sizes differ")
	ErrNgramLength            = errors.New("ngram: n-gram length does not match window size")
	ErrInvalidCount           = errors.New("ngram: count must be at least 1")
	ErrBufferTooSmall         = errors.New("ngram: buffer capacity below twice the window size")
	ErrNoHistograms           = errors.New("ngram: nothing to reduce")
)

// Error wraps errors with operation context.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ngram.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with operation context.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

func invalidWindow(op string, n int) error {
	return WrapError(op, fmt.Errorf("%w (got %d)", ErrInvalidWindowSize, n))
}

func incompatible(op string, want, got int) error {
	return WrapError(op, fmt.Errorf("%w: %d and %d", ErrIncompatibleWindowSize, want, got))
}
