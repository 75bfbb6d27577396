package transport

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Channel is an open byte pipe to a target.
// Read and Write report one of three outcomes:
//   - n > 0, err == nil: some bytes were transferred
//   - n == 0, err == nil: nothing is ready yet; wait and retry
//   - err != nil: the link is broken and must be closed and reopened before further use
//
// Implementations wrap their broken-link condition in ErrBroken.
type Channel interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)

	// Flush waits for any data queued by Write to leave the host.
	Flush() error

	Close() error
}

// Describer is implemented by channels that can report what they are connected to.
type Describer interface {
	Info() Info
}

// Info describes the endpoint a Channel is bound to.
type Info struct {
	Driver   string
	Endpoint string
	Warning  string
}

func (i Info) String() string {
	return fmt.Sprintf("%s: connected to %s", i.Driver, i.Endpoint)
}

type Driver interface {
	DisplayName() string
	DisplayDescription() string

	// Open binds a new Channel to the endpoint named by selector.
	// The same selector is used again to reopen after a broken link.
	Open(selector string) (Channel, error)
}

// Detector is implemented by drivers which can discover endpoints on their own.
type Detector interface {
	Detect() ([]string, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a transport driver available by the provided name.
// If Register is called twice with the same name or if driver is nil,
// it panics.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("transport: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("transport: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

func unregisterAllDrivers() {
	driversMu.Lock()
	defer driversMu.Unlock()
	// For tests.
	drivers = make(map[string]Driver)
}

// Drivers returns a sorted list of the names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

func Lookup(driverName string) (Driver, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[driverName]
	return d, ok
}

func Open(driverName, selector string) (Channel, error) {
	d, ok := Lookup(driverName)
	if !ok {
		return nil, fmt.Errorf("transport: unknown driver %q (forgotten import?)", driverName)
	}

	return d.Open(selector)
}

// SplitSelector breaks a "part;part;..." selector into exactly n parts.
// Missing parts are returned empty.
func SplitSelector(selector string, n int) []string {
	parts := strings.SplitN(selector, ";", n)
	for len(parts) < n {
		parts = append(parts, "")
	}
	return parts
}
