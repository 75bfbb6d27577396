package bridge

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"htif/transport"
)

// Link owns the Channel to the target and hides its transient failures:
// "not ready" is retried after a backoff and a broken link is closed and
// reopened with the same selector. Callers only see complete transfers.
type Link struct {
	driver   transport.Driver
	selector string
	name     string

	ch     transport.Channel
	closed bool

	backoff  Backoff
	progress io.Writer
	logger   *log.Logger

	stats Stats
}

// Dial opens the first channel. Failing to do so is not retried.
func Dial(driver transport.Driver, selector string, opts ...Option) (l *Link, err error) {
	l = &Link{
		driver:   driver,
		selector: selector,
		name:     selector,
		backoff:  DefaultBackoff(),
		progress: io.Discard,
		logger:   log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.name == "" {
		l.name = driver.DisplayName()
	}

	l.ch, err = driver.Open(selector)
	if err != nil {
		var oerr *transport.OpenError
		if !errors.As(err, &oerr) {
			err = &transport.OpenError{Driver: l.name, Selector: selector, Cause: err}
		}
		return nil, err
	}

	l.stats.Start = time.Now()
	return l, nil
}

// Info describes the current channel, when the driver can.
func (l *Link) Info() (transport.Info, bool) {
	if d, ok := l.ch.(transport.Describer); ok {
		return d.Info(), true
	}
	return transport.Info{}, false
}

func (l *Link) Stats() *Stats {
	return &l.stats
}

// WriteExact sends all of p. Bytes accepted before a broken link are not resent.
func (l *Link) WriteExact(ctx context.Context, p []byte) error {
	return l.transfer(ctx, "write", p, true)
}

// ReadExact fills all of p.
func (l *Link) ReadExact(ctx context.Context, p []byte) error {
	return l.transfer(ctx, "read", p, false)
}

func (l *Link) transfer(ctx context.Context, op string, p []byte, write bool) error {
	if l.closed {
		return ErrClosed
	}

	stalls := 0
	stall := func(done int, sleep bool) error {
		stalls++
		if l.backoff.Limit > 0 && stalls > l.backoff.Limit {
			return &StallError{Op: op, Done: done, Expected: len(p), Attempts: stalls}
		}
		if !sleep {
			return ctx.Err()
		}
		return l.wait(ctx)
	}

	for done := 0; done < len(p); {
		if err := ctx.Err(); err != nil {
			return err
		}

		if l.ch == nil {
			if err := l.reopen(); err != nil {
				l.logger.Printf("%s: reopen failed: %v\n", l.name, err)
				if err = stall(done, true); err != nil {
					return err
				}
				continue
			}
		}

		var n int
		var err error
		if write {
			n, err = l.ch.Write(p[done:])
		} else {
			n, err = l.ch.Read(p[done:])
		}
		if n < 0 {
			n = 0
		}
		if n > 0 {
			done += n
			l.stats.add(n, write)
			stalls = 0
		}

		switch {
		case err != nil:
			l.disconnect(op, err)
			if err = stall(done, false); err != nil {
				return err
			}
		case n == 0:
			l.stats.Retries++
			l.mark('.')
			if err = stall(done, true); err != nil {
				return err
			}
		}
	}

	return nil
}

func (l *Link) wait(ctx context.Context) error {
	if l.backoff.Interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(l.backoff.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (l *Link) disconnect(op string, cause error) {
	l.logger.Printf("%s: %s failure: %v\n", l.name, op, cause)

	if err := l.ch.Close(); err != nil {
		l.logger.Printf("%s: close: %v\n", l.name, err)
	}
	l.ch = nil

	l.stats.Reconnects++
	l.mark('!')
}

func (l *Link) reopen() (err error) {
	var ch transport.Channel
	ch, err = l.driver.Open(l.selector)
	if err != nil {
		return
	}
	l.ch = ch
	return
}

func (l *Link) mark(c byte) {
	_, _ = l.progress.Write([]byte{c})
}

// Flush asks the transport to push out everything accepted so far.
// A failed flush is only logged: the bytes were already accepted and there
// is nothing to resend.
func (l *Link) Flush() error {
	if l.closed {
		return ErrClosed
	}
	if l.ch == nil {
		return nil
	}

	if err := l.ch.Flush(); err != nil {
		l.logger.Printf("%s: flush error: %v\n", l.name, err)
		if transport.IsBroken(err) {
			l.disconnect("flush", err)
		}
	}
	return nil
}

func (l *Link) Close() (err error) {
	if l.closed {
		return nil
	}
	l.closed = true

	if l.ch != nil {
		err = l.ch.Close()
		l.ch = nil
	}
	return
}
