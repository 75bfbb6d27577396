package mock

import (
	"htif/transport"
)

type Channel struct {
	t      *Target
	broken bool
	closed bool
}

func (c *Channel) Read(p []byte) (n int, err error) {
	if c.closed {
		return 0, transport.ErrClosed
	}
	if c.broken {
		return 0, transport.Broken("mock read", nil)
	}
	n, err = c.t.read(p)
	if err != nil {
		c.broken = true
	}
	return
}

func (c *Channel) Write(p []byte) (n int, err error) {
	if c.closed {
		return 0, transport.ErrClosed
	}
	if c.broken {
		return 0, transport.Broken("mock write", nil)
	}
	n, err = c.t.write(p)
	if err != nil {
		c.broken = true
	}
	return
}

func (c *Channel) Flush() error {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	c.t.Flushes++
	return nil
}

func (c *Channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	c.t.Closes++
	return nil
}

func (c *Channel) Info() transport.Info {
	return transport.Info{Driver: driverName, Endpoint: "simulated target"}
}
