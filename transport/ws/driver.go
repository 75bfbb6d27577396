package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	gws "github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"htif/transport"
)

const driverName = "ws"

const (
	dialTimeout  = 5 * time.Second
	pollInterval = 10 * time.Millisecond
)

type Driver struct{}

func (d *Driver) DisplayName() string {
	return "WebSocket"
}

func (d *Driver) DisplayDescription() string {
	return "Connect to a simulated target over a websocket (ws://host:port/path)"
}

func (d *Driver) Open(selector string) (transport.Channel, error) {
	url := selector
	if url == "" {
		return nil, &transport.OpenError{Driver: driverName, Selector: selector, Cause: errors.New("no url")}
	}
	if !strings.Contains(url, "://") {
		url = "ws://" + url
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	log.Printf("ws: dial %s\n", url)
	conn, _, _, err := gws.Dial(ctx, url)
	if err != nil {
		return nil, &transport.OpenError{Driver: driverName, Selector: url, Cause: err}
	}

	c := &Channel{
		conn:   conn,
		url:    url,
		frames: make(chan []byte),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.pump()

	return c, nil
}

// Channel carries the byte stream in binary frames. Frame boundaries carry no
// meaning; a frame may be consumed across several Reads.
type Channel struct {
	conn net.Conn
	url  string

	frames chan []byte
	quit   chan struct{}
	done   chan struct{}
	// set by pump before done is closed:
	err error

	rest []byte

	closeOnce sync.Once
	closed    bool
}

func (c *Channel) pump() {
	defer close(c.done)
	for {
		data, op, err := wsutil.ReadServerData(c.conn)
		if err != nil {
			c.err = err
			return
		}
		if op != gws.OpBinary {
			continue
		}

		select {
		case c.frames <- data:
		case <-c.quit:
			return
		}
	}
}

func (c *Channel) Read(p []byte) (n int, err error) {
	if c.closed {
		return 0, transport.ErrClosed
	}

	if len(c.rest) == 0 {
		t := time.NewTimer(pollInterval)
		defer t.Stop()

		select {
		case c.rest = <-c.frames:
		case <-c.done:
			return 0, transport.Broken("ws read", c.err)
		case <-t.C:
			return 0, nil
		}
	}

	n = copy(p, c.rest)
	c.rest = c.rest[n:]
	return
}

func (c *Channel) Write(p []byte) (n int, err error) {
	if c.closed {
		return 0, transport.ErrClosed
	}

	if err = wsutil.WriteClientBinary(c.conn, p); err != nil {
		return 0, transport.Broken("ws write", err)
	}
	return len(p), nil
}

// Flush is a no-op since every Write sends a complete frame.
func (c *Channel) Flush() error {
	return nil
}

func (c *Channel) Close() (err error) {
	c.closeOnce.Do(func() {
		c.closed = true
		close(c.quit)
		log.Printf("ws: close %s\n", c.url)
		if cerr := c.conn.Close(); cerr != nil {
			err = fmt.Errorf("ws: close %s: %w", c.url, cerr)
		}
	})
	return
}

func (c *Channel) Info() transport.Info {
	return transport.Info{Driver: driverName, Endpoint: c.url}
}

func init() {
	transport.Register(driverName, &Driver{})
}
