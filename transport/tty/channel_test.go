//go:build !windows

package tty

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/pkg/term/termios"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"htif/transport"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		broken bool
	}{
		{"ok", nil, false},
		{"timeout", io.EOF, false},
		{"eagain", unix.EAGAIN, false},
		{"wrapped eagain", &os.PathError{Op: "read", Path: "/dev/ttyUSB0", Err: unix.EAGAIN}, false},
		{"eintr", unix.EINTR, false},
		{"unplugged", unix.ENXIO, true},
		{"io error", &os.PathError{Op: "read", Path: "/dev/ttyUSB0", Err: unix.EIO}, true},
		{"other", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := classify("read", 3, tt.err)
			assert.Equal(t, 3, n)
			assert.Equal(t, tt.broken, transport.IsBroken(err))
			if !tt.broken {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDriver_OpenErrors(t *testing.T) {
	d := &Driver{}
	for _, selector := range []string{"", "/dev/htif-test-missing", "/dev/ttyS0;slow"} {
		_, err := d.Open(selector)
		require.Error(t, err, selector)

		var oerr *transport.OpenError
		assert.ErrorAs(t, err, &oerr, selector)
	}
}

func TestLineSettings(t *testing.T) {
	var a unix.Termios
	a.Iflag = unix.IXON | unix.IXOFF | unix.IXANY | unix.ICRNL
	a.Cflag = unix.CRTSCTS | unix.CSTOPB | unix.PARENB | unix.CS7

	lineSettings(&a)

	assert.Zero(t, a.Iflag&(unix.IXON|unix.IXOFF|unix.IXANY))
	assert.NotZero(t, a.Iflag&unix.ICRNL, "unrelated input flags are kept")
	assert.Zero(t, a.Cflag&(unix.CRTSCTS|unix.CSTOPB|unix.PARENB))
	assert.True(t, a.Cflag&unix.CSIZE == unix.CS8)
	assert.True(t, a.Cflag&(unix.CLOCAL|unix.CREAD) == unix.CLOCAL|unix.CREAD)
}

func TestDriver_OpenDisablesFlowControl(t *testing.T) {
	ptm, pts, err := termios.Pty()
	require.NoError(t, err)
	defer ptm.Close()
	defer pts.Close()

	// leave the port the way another program might have:
	a, err := termios.Tcgetattr(pts.Fd())
	require.NoError(t, err)
	a.Iflag |= unix.IXON | unix.IXOFF | unix.IXANY
	a.Cflag &^= unix.CLOCAL
	require.NoError(t, termios.Tcsetattr(pts.Fd(), termios.TCSANOW, a))

	ch, err := (&Driver{}).Open(pts.Name())
	require.NoError(t, err)
	defer ch.Close()

	a, err = termios.Tcgetattr(pts.Fd())
	require.NoError(t, err)
	assert.Zero(t, a.Iflag&(unix.IXON|unix.IXOFF|unix.IXANY))
	assert.NotZero(t, a.Cflag&unix.CLOCAL)
	assert.Zero(t, a.Cflag&(unix.PARENB|unix.CSTOPB))
	assert.True(t, a.Cflag&unix.CSIZE == unix.CS8)
}
