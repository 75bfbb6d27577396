package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htif/transport"
)

func TestDriver_Registered(t *testing.T) {
	d, ok := transport.Lookup(driverName)
	require.True(t, ok)
	assert.Equal(t, "Serial", d.DisplayName())

	_, ok = d.(transport.Detector)
	assert.True(t, ok)
}

func TestDriver_OpenErrors(t *testing.T) {
	tests := []struct {
		name     string
		selector string
	}{
		{"bad baud", "/dev/htif-test-missing;fast"},
		{"negative baud", "/dev/htif-test-missing;-9600"},
		{"missing port", "/dev/htif-test-missing;115200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Driver{}
			ch, err := d.Open(tt.selector)
			require.Error(t, err)
			assert.Nil(t, ch)

			var oerr *transport.OpenError
			require.ErrorAs(t, err, &oerr)
			assert.Equal(t, driverName, oerr.Driver)
		})
	}
}
