//go:build !windows

package tty

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pkg/term"
	"golang.org/x/sys/unix"

	"htif/transport"
)

const drainPoll = time.Millisecond

type Channel struct {
	t    *term.Term
	path string
	baud int
}

// wouldBlock reports the errors a non-blocking terminal returns when it has
// nothing to give or no room to take.
func wouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR)
}

func classify(op string, n int, err error) (int, error) {
	switch {
	case err == nil:
		return n, nil
	case err == io.EOF:
		// read timeout expired with nothing received:
		return n, nil
	case wouldBlock(err):
		return n, nil
	default:
		return n, transport.Broken("tty "+op, err)
	}
}

func (c *Channel) Read(p []byte) (int, error) {
	n, err := c.t.Read(p)
	if n < 0 {
		n = 0
	}
	return classify("read", n, err)
}

func (c *Channel) Write(p []byte) (int, error) {
	n, err := c.t.Write(p)
	if n < 0 {
		n = 0
	}
	return classify("write", n, err)
}

// Flush waits until the output queue of the terminal is empty.
func (c *Channel) Flush() error {
	for {
		n, err := c.t.Buffered()
		if err != nil {
			return fmt.Errorf("tty: drain %s: %w", c.path, err)
		}
		if n == 0 {
			return nil
		}
		time.Sleep(drainPoll)
	}
}

func (c *Channel) Close() error {
	if err := c.t.Close(); err != nil {
		return fmt.Errorf("tty: close %s: %w", c.path, err)
	}
	return nil
}

func (c *Channel) Info() transport.Info {
	return transport.Info{
		Driver:   driverName,
		Endpoint: fmt.Sprintf("%s at %d baud, 8N1 raw", c.path, c.baud),
	}
}
