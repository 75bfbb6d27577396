package serial

import (
	"fmt"

	"go.bug.st/serial"

	"htif/transport"
)

type Channel struct {
	f    serial.Port
	port string
	baud int
}

// Read returns 0 with no error when the read timeout passes without data.
func (c *Channel) Read(p []byte) (n int, err error) {
	n, err = c.f.Read(p)
	if err != nil {
		return n, transport.Broken("serial read", err)
	}
	return
}

func (c *Channel) Write(p []byte) (n int, err error) {
	n, err = c.f.Write(p)
	if err != nil {
		return n, transport.Broken("serial write", err)
	}
	return
}

// Flush is a no-op: Write hands bytes straight to the driver.
func (c *Channel) Flush() error {
	return nil
}

func (c *Channel) Close() (err error) {
	err = c.f.Close()
	if err != nil {
		return fmt.Errorf("serial: could not close serial port: %w", err)
	}
	return
}

func (c *Channel) Info() transport.Info {
	return transport.Info{
		Driver:   driverName,
		Endpoint: fmt.Sprintf("%s at %d baud, 8N1", c.port, c.baud),
	}
}
