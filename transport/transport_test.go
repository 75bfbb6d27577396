package transport

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopChannel struct{}

func (nopChannel) Read(p []byte) (int, error)  { return 0, nil }
func (nopChannel) Write(p []byte) (int, error) { return len(p), nil }
func (nopChannel) Flush() error                { return nil }
func (nopChannel) Close() error                { return nil }

type fakeDriver struct {
	opened []string
}

func (d *fakeDriver) DisplayName() string        { return "Fake" }
func (d *fakeDriver) DisplayDescription() string { return "fake driver for tests" }
func (d *fakeDriver) Open(selector string) (Channel, error) {
	d.opened = append(d.opened, selector)
	return nopChannel{}, nil
}

func TestRegistry(t *testing.T) {
	unregisterAllDrivers()
	defer unregisterAllDrivers()

	b := &fakeDriver{}
	Register("b", b)
	Register("a", &fakeDriver{})

	assert.Equal(t, []string{"a", "b"}, Drivers())

	ch, err := Open("b", "port;9600")
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, []string{"port;9600"}, b.opened)

	_, err = Open("missing", "")
	assert.Error(t, err)

	assert.Panics(t, func() { Register("a", &fakeDriver{}) })
	assert.Panics(t, func() { Register("c", nil) })
}

func TestSplitSelector(t *testing.T) {
	tests := []struct {
		selector string
		n        int
		want     []string
	}{
		{"", 3, []string{"", "", ""}},
		{"USB-Blaster [1-1]", 3, []string{"USB-Blaster [1-1]", "", ""}},
		{"c;1;0", 3, []string{"c", "1", "0"}},
		{"/dev/ttyUSB0;115200", 2, []string{"/dev/ttyUSB0", "115200"}},
		{"a;b;c", 2, []string{"a", "b;c"}},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSelector(tt.selector, tt.n))
		})
	}
}

func TestBrokenError(t *testing.T) {
	err := Broken("read", io.ErrUnexpectedEOF)
	assert.True(t, IsBroken(err))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "read")
	assert.False(t, IsBroken(io.EOF))
}

func TestOpenError(t *testing.T) {
	err := &OpenError{
		Driver:   "jtaguart",
		Selector: ";1;0",
		Code:     -6,
		Holder:   "nios2-terminal",
		Cause:    errors.New("Another program is already using the UART"),
	}
	assert.Contains(t, err.Error(), "jtaguart")
	assert.Contains(t, err.Error(), "nios2-terminal")
	assert.Contains(t, err.Error(), "already using")
}
