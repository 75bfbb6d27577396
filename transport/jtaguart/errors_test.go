package jtaguart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOpenError(t *testing.T) {
	tests := []struct {
		code   int
		holder string
		want   string
	}{
		{-1, "", `jtaguart: cannot open "": Unable to connect to local JTAG server`},
		{-4, "", `jtaguart: cannot open "": Selected cable is not plugged`},
		{-6, "nios2-terminal", `jtaguart: cannot open "": jtaguart: UART in use: Another program is already using the UART (in use by 'nios2-terminal')`},
		{-9, "", `jtaguart: cannot open "": Selected UART is not compatible with this version of the library`},
		{-10, "", `jtaguart: cannot open "": Unknown error -10`},
		{0, "", `jtaguart: cannot open "": Unknown error 0`},
	}
	for _, tt := range tests {
		err := decodeOpenError("", tt.code, tt.holder)
		assert.Equal(t, tt.code, err.Code)
		assert.Equal(t, tt.want, err.Error())
		assert.Equal(t, tt.holder, err.Holder)
	}

	assert.ErrorIs(t, decodeOpenError("", -6, "x"), ErrInUse)
	assert.NotErrorIs(t, decodeOpenError("", -5, ""), ErrInUse)
}

func TestErrorTableComplete(t *testing.T) {
	for code := -1; code >= -9; code-- {
		assert.NotContains(t, errorMessage(code), "Unknown", code)
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		selector string
		want     endpoint
	}{
		{"", endpoint{"", DefaultDevice, DefaultInstance}},
		{"USB-Blaster [3-2]", endpoint{"USB-Blaster [3-2]", DefaultDevice, DefaultInstance}},
		{";2;1", endpoint{"", 2, 1}},
		{";*;*", endpoint{"", chooseAny, chooseAny}},
	}
	for _, tt := range tests {
		got, err := parseSelector(tt.selector)
		require.NoError(t, err, tt.selector)
		assert.Equal(t, tt.want, got, tt.selector)
	}

	for _, bad := range []string{";x", ";1;-2", ";1x"} {
		_, err := parseSelector(bad)
		assert.Error(t, err, bad)
	}
}

func TestEndpointString(t *testing.T) {
	assert.Equal(t, "cable 'any', device 1, instance 0", endpoint{device: 1}.String())
	assert.Equal(t, "cable 'USB-Blaster [1-1]', device 2, instance 0",
		endpoint{cable: "USB-Blaster [1-1]", device: 2}.String())
}
