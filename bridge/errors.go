package bridge

import (
	"errors"
	"fmt"
)

var (
	ErrRetryLimit    = errors.New("bridge: retry limit reached")
	ErrChunkTooLarge = errors.New("bridge: chunk larger than buffer capacity")
	ErrClosed        = errors.New("bridge: link is closed")
)

// StallError reports a transfer abandoned by the retry limit.
type StallError struct {
	Op       string
	Done     int
	Expected int
	Attempts int
}

func (e *StallError) Unwrap() error { return ErrRetryLimit }
func (e *StallError) Error() string {
	return fmt.Sprintf("bridge: %s stalled after %d attempts: %d of %d bytes transferred",
		e.Op, e.Attempts, e.Done, e.Expected)
}
