//go:build !windows

package tty

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/term"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"htif/transport"
)

const driverName = "tty"

const (
	DefaultBaud = 115200

	// readTimeout bounds a Read that finds nothing to return.
	readTimeout = 500 * time.Millisecond
)

type Driver struct{}

func (d *Driver) DisplayName() string {
	return "TTY"
}

func (d *Driver) DisplayDescription() string {
	return "Connect to the target monitor over a raw POSIX terminal device (path[;baud])"
}

func (d *Driver) Open(selector string) (transport.Channel, error) {
	parts := transport.SplitSelector(selector, 2)

	path := parts[0]
	if path == "" {
		return nil, &transport.OpenError{Driver: driverName, Selector: selector, Cause: fmt.Errorf("no device path")}
	}

	baud := DefaultBaud
	if parts[1] != "" {
		var err error
		baud, err = strconv.Atoi(parts[1])
		if err != nil || baud <= 0 {
			return nil, &transport.OpenError{
				Driver:   driverName,
				Selector: selector,
				Cause:    fmt.Errorf("bad baud rate %q", parts[1]),
			}
		}
	}

	t, err := term.Open(path,
		term.Speed(baud),
		term.RawMode,
		term.FlowControl(term.NONE),
		term.ReadTimeout(readTimeout),
		term.SetAttr(lineSettings),
	)
	if err != nil {
		return nil, &transport.OpenError{Driver: driverName, Selector: path, Cause: err}
	}

	return &Channel{t: t, path: path, baud: baud}, nil
}

// lineSettings forces 8N1 with every kind of flow control off and the modem
// lines ignored. RawMode leaves IXOFF, IXANY and CRTSCTS as the port last had
// them; XON/XOFF bytes sent by the line discipline would land in the command
// stream.
func lineSettings(a *unix.Termios) uintptr {
	a.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY
	a.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS
	a.Cflag |= unix.CS8 | unix.CLOCAL | unix.CREAD
	return termios.TCSANOW
}

func init() {
	transport.Register(driverName, &Driver{})
}
