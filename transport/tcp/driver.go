package tcp

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"htif/transport"
)

const driverName = "tcp"

const (
	dialTimeout  = 5 * time.Second
	pollInterval = 10 * time.Millisecond
)

type Driver struct{}

func (d *Driver) DisplayName() string {
	return "TCP"
}

func (d *Driver) DisplayDescription() string {
	return "Connect to a simulated target over a TCP stream (host:port)"
}

func (d *Driver) Open(selector string) (transport.Channel, error) {
	if selector == "" {
		return nil, &transport.OpenError{Driver: driverName, Selector: selector, Cause: errors.New("no address")}
	}

	c, err := net.DialTimeout("tcp", selector, dialTimeout)
	if err != nil {
		return nil, &transport.OpenError{Driver: driverName, Selector: selector, Cause: err}
	}
	if tc, ok := c.(*net.TCPConn); ok {
		// commands are tiny; do not let Nagle sit on them:
		_ = tc.SetNoDelay(true)
	}

	return &Channel{c: c, addr: selector}, nil
}

type Channel struct {
	c    net.Conn
	addr string
}

func timedOut(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}

func (ch *Channel) Read(p []byte) (n int, err error) {
	if err = ch.c.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
		return 0, transport.Broken("tcp read", err)
	}
	n, err = ch.c.Read(p)
	if err != nil {
		if timedOut(err) {
			return n, nil
		}
		return n, transport.Broken("tcp read", err)
	}
	return
}

func (ch *Channel) Write(p []byte) (n int, err error) {
	if err = ch.c.SetWriteDeadline(time.Now().Add(pollInterval)); err != nil {
		return 0, transport.Broken("tcp write", err)
	}
	n, err = ch.c.Write(p)
	if err != nil {
		if timedOut(err) {
			return n, nil
		}
		return n, transport.Broken("tcp write", err)
	}
	return
}

// Flush is a no-op: Write returns once the kernel holds the bytes.
func (ch *Channel) Flush() error {
	return nil
}

func (ch *Channel) Close() (err error) {
	err = ch.c.Close()
	if err != nil {
		return fmt.Errorf("tcp: close %s: %w", ch.addr, err)
	}
	return
}

func (ch *Channel) Info() transport.Info {
	return transport.Info{Driver: driverName, Endpoint: ch.c.RemoteAddr().String()}
}

func init() {
	transport.Register(driverName, &Driver{})
}
