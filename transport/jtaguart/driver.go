//go:build jtagatlantic

package jtaguart

/*
#cgo LDFLAGS: -ljtag_atlantic -ljtag_client
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"fmt"
	"log"
	"unsafe"

	"htif/transport"
)

type Driver struct{}

func (d *Driver) DisplayName() string {
	return "JTAG UART"
}

func (d *Driver) DisplayDescription() string {
	return "Connect to the target through a JTAG Atlantic UART (cable;device;instance)"
}

func (d *Driver) Open(selector string) (transport.Channel, error) {
	ep, err := parseSelector(selector)
	if err != nil {
		return nil, &transport.OpenError{Driver: driverName, Selector: selector, Cause: err}
	}

	var cable *C.char
	if ep.cable != "" {
		cable = C.CString(ep.cable)
		defer C.free(unsafe.Pointer(cable))
	}
	prog := C.CString(progName)
	defer C.free(unsafe.Pointer(prog))

	h := C.jtaguart_open(cable, C.int(ep.device), C.int(ep.instance), prog)
	if h == nil {
		var holder *C.char
		code := C.jtaguart_get_error(&holder)
		return nil, decodeOpenError(selector, int(code), C.GoString(holder))
	}

	c := &Channel{h: h}

	var name *C.char
	var device, instance C.int
	C.jtaguart_get_info(h, &name, &device, &instance)
	c.ep = endpoint{cable: C.GoString(name), device: int(device), instance: int(instance)}
	c.warn = C.jtaguart_cable_warning(h) != 0

	return c, nil
}

type Channel struct {
	h    C.jtaguart_t
	ep   endpoint
	warn bool
}

func (c *Channel) Read(p []byte) (int, error) {
	if c.h == nil {
		return 0, transport.ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := C.jtaguart_read(c.h, (*C.char)(unsafe.Pointer(&p[0])), C.uint(len(p)))
	if n < 0 {
		return 0, transport.Broken("jtaguart read", fmt.Errorf("code %d", int(n)))
	}
	return int(n), nil
}

func (c *Channel) Write(p []byte) (int, error) {
	if c.h == nil {
		return 0, transport.ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := C.jtaguart_write(c.h, (*C.char)(unsafe.Pointer(&p[0])), C.uint(len(p)))
	if n < 0 {
		return 0, transport.Broken("jtaguart write", fmt.Errorf("code %d", int(n)))
	}
	return int(n), nil
}

// Flush waits until the library has sent everything it accepted.
func (c *Channel) Flush() error {
	if c.h == nil {
		return transport.ErrClosed
	}
	if rc := C.jtaguart_flush(c.h); rc != 0 {
		return fmt.Errorf("jtaguart: flush: code %d", int(rc))
	}
	return nil
}

func (c *Channel) Close() error {
	if c.h == nil {
		return nil
	}
	log.Printf("jtaguart: close %s\n", c.ep)
	C.jtaguart_close(c.h)
	c.h = nil
	return nil
}

func (c *Channel) Info() (info transport.Info) {
	info = transport.Info{Driver: driverName, Endpoint: c.ep.String()}
	if c.warn {
		info.Warning = cableWarning
	}
	return
}

func init() {
	transport.Register(driverName, &Driver{})
}
