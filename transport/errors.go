package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrBroken marks a link that must be torn down and reopened.
	ErrBroken = errors.New("link broken")
	ErrClosed = errors.New("channel closed")
)

type BrokenError struct {
	Op      string
	wrapped error
}

// Broken wraps err as a broken-link failure of op.
func Broken(op string, err error) error {
	return &BrokenError{Op: op, wrapped: err}
}

func (e *BrokenError) Unwrap() error { return e.wrapped }
func (e *BrokenError) Is(target error) bool {
	return target == ErrBroken
}
func (e *BrokenError) Error() string {
	if e.wrapped == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrBroken)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrBroken, e.wrapped)
}

func IsBroken(err error) bool {
	return errors.Is(err, ErrBroken)
}

// OpenError is returned when a channel cannot be established.
type OpenError struct {
	Driver   string
	Selector string

	// Code is the driver specific failure code; 0 when not applicable.
	Code int
	// Holder names the program already holding the endpoint, if known.
	Holder string

	Cause error
}

func (e *OpenError) Unwrap() error { return e.Cause }
func (e *OpenError) Error() string {
	msg := fmt.Sprintf("%s: cannot open %q", e.Driver, e.Selector)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Holder != "" {
		msg += fmt.Sprintf(" (in use by '%s')", e.Holder)
	}
	return msg
}
