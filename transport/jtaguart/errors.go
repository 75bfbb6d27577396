// Package jtaguart talks to a JTAG Atlantic virtual UART through the vendor
// jtag_atlantic library.
//
// The cgo driver is only compiled with the jtagatlantic build tag, since it
// needs the vendor library at link time:
//
//	CGO_LDFLAGS="-L$QUARTUS_ROOTDIR/linux64 -ljtag_atlantic -ljtag_client" go build -tags jtagatlantic ./cmd/htif
//
// Without the tag the package registers no driver.
package jtaguart

import (
	"errors"
	"fmt"
	"strconv"

	"htif/transport"
)

const driverName = "jtaguart"

const (
	// DefaultDevice is the first device in the JTAG chain.
	DefaultDevice   = 1
	DefaultInstance = 0

	// chooseAny lets the library pick the device or instance.
	chooseAny = -1

	progName = "htif"
)

// ErrInUse is reported when another program holds the UART.
var ErrInUse = errors.New("jtaguart: UART in use")

var openErrors = [...]string{
	"Unable to connect to local JTAG server",
	"More than one cable available, provide more specific cable name",
	"Cable not available",
	"Selected cable is not plugged",
	"JTAG not connected to board, or board powered down",
	"Another program is already using the UART",
	"More than one UART available, specify device/instance",
	"No UART matching the specified device/instance",
	"Selected UART is not compatible with this version of the library",
}

// codeInUse is the library code for a UART locked by another program.
const codeInUse = -6

// errorMessage returns the text for a library error code (-1 .. -9).
func errorMessage(code int) string {
	i := -code - 1
	if i < 0 || i >= len(openErrors) {
		return fmt.Sprintf("Unknown error %d", code)
	}
	return openErrors[i]
}

// decodeOpenError turns the code and lock holder reported by the library after
// a failed open into an OpenError.
func decodeOpenError(selector string, code int, holder string) *transport.OpenError {
	var cause error = errors.New(errorMessage(code))
	if code == codeInUse {
		cause = fmt.Errorf("%w: %s", ErrInUse, errorMessage(code))
	}
	return &transport.OpenError{
		Driver:   driverName,
		Selector: selector,
		Code:     code,
		Holder:   holder,
		Cause:    cause,
	}
}

// endpoint identifies the UART the library selected.
type endpoint struct {
	cable    string
	device   int
	instance int
}

func parseSelector(selector string) (ep endpoint, err error) {
	parts := transport.SplitSelector(selector, 3)
	ep = endpoint{cable: parts[0], device: DefaultDevice, instance: DefaultInstance}

	if ep.device, err = parseIndex(parts[1], DefaultDevice); err != nil {
		err = fmt.Errorf("jtaguart: bad device %q: %w", parts[1], err)
		return
	}
	if ep.instance, err = parseIndex(parts[2], DefaultInstance); err != nil {
		err = fmt.Errorf("jtaguart: bad instance %q: %w", parts[2], err)
		return
	}
	return
}

// parseIndex reads a device or instance number; "*" lets the library choose.
func parseIndex(s string, def int) (int, error) {
	switch s {
	case "":
		return def, nil
	case "*":
		return chooseAny, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative")
	}
	return n, nil
}

func (ep endpoint) String() string {
	cable := ep.cable
	if cable == "" {
		cable = "any"
	}
	return fmt.Sprintf("cable '%s', device %d, instance %d", cable, ep.device, ep.instance)
}

const cableWarning = "older ByteBlaster, might be less reliable"
