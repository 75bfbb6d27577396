package serial

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"htif/transport"
)

const driverName = "serial"

const (
	DefaultBaud = 115200

	// pollInterval bounds how long a Read waits before reporting nothing ready.
	pollInterval = 10 * time.Millisecond
)

var (
	ErrNoPortFound    = errors.New("serial: no USB serial port found")
	ErrManyPortsFound = errors.New("serial: more than one USB serial port, name one explicitly")
)

type Driver struct{}

func (d *Driver) DisplayName() string {
	return "Serial"
}

func (d *Driver) DisplayDescription() string {
	return "Connect to the target monitor over a serial port (port[;baud])"
}

// Detect lists the USB serial ports present.
func (d *Driver) Detect() (ports []string, err error) {
	var details []*enumerator.PortDetails
	details, err = enumerator.GetDetailedPortsList()
	if err != nil {
		return
	}

	for _, port := range details {
		if !port.IsUSB {
			continue
		}
		ports = append(ports, port.Name)
	}
	return
}

func (d *Driver) detectOne() (string, error) {
	ports, err := d.Detect()
	if err != nil {
		return "", err
	}
	switch len(ports) {
	case 0:
		return "", ErrNoPortFound
	case 1:
		return ports[0], nil
	default:
		return "", ErrManyPortsFound
	}
}

func (d *Driver) Open(selector string) (transport.Channel, error) {
	var err error

	parts := transport.SplitSelector(selector, 2)

	portName := parts[0]
	if portName == "" {
		portName, err = d.detectOne()
		if err != nil {
			return nil, &transport.OpenError{Driver: driverName, Selector: selector, Cause: err}
		}
		log.Printf("serial: detected %s\n", portName)
	}

	baud := DefaultBaud
	if parts[1] != "" {
		baud, err = strconv.Atoi(parts[1])
		if err != nil || baud <= 0 {
			return nil, &transport.OpenError{
				Driver:   driverName,
				Selector: selector,
				Cause:    fmt.Errorf("bad baud rate %q", parts[1]),
			}
		}
	}

	f, err := serial.Open(portName, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, &transport.OpenError{Driver: driverName, Selector: portName, Cause: err}
	}

	if err = f.SetReadTimeout(pollInterval); err != nil {
		f.Close()
		return nil, &transport.OpenError{
			Driver:   driverName,
			Selector: portName,
			Cause:    fmt.Errorf("set read timeout: %w", err),
		}
	}

	return &Channel{f: f, port: portName, baud: baud}, nil
}

func init() {
	transport.Register(driverName, &Driver{})
}
