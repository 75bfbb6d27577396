package bridge

import (
	"io"
	"log"
	"time"
)

// DefaultPollInterval is how long to wait after the transport reports nothing ready.
const DefaultPollInterval = 10 * time.Millisecond

// Backoff is the polling policy applied while the transport makes no progress.
type Backoff struct {
	// Interval is slept after every "not ready" outcome; 0 retries immediately.
	Interval time.Duration

	// Limit bounds consecutive attempts without progress; 0 retries forever.
	Limit int
}

func DefaultBackoff() Backoff {
	return Backoff{Interval: DefaultPollInterval}
}

// Option is a functional option for configuring a Link.
type Option func(*Link)

func WithBackoff(b Backoff) Option {
	return func(l *Link) {
		l.backoff = b
	}
}

// WithProgress sets the writer receiving one '.' per retry and one '!' per reconnect.
func WithProgress(w io.Writer) Option {
	return func(l *Link) {
		l.progress = w
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Link) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithName sets the prefix used in log lines; defaults to the selector.
func WithName(name string) Option {
	return func(l *Link) {
		l.name = name
	}
}
