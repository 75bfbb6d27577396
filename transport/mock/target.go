package mock

import (
	"fmt"
	"sync"

	"htif/target"
	"htif/transport"
)

// Faults describes misbehaviour injected into a Target's channels.
// Call counters are shared by every channel opened on the Target so
// a fault fires once even across reconnects.
type Faults struct {
	// the first ZeroReads/ZeroWrites calls report nothing ready:
	ZeroReads  int
	ZeroWrites int

	// the Nth Read/Write call (1-based) reports a broken link; 0 disables:
	BreakOnRead  int
	BreakOnWrite int

	// FailOpens makes the next reopen attempts fail:
	FailOpens int

	// MaxChunk caps the bytes accepted or returned by a single call; 0 is unlimited.
	MaxChunk int
}

// Target is an in-memory target reachable through mock channels.
type Target struct {
	mu sync.Mutex

	Machine *target.Machine
	Faults  Faults

	// response bytes produced by the machine, not yet read:
	rx []byte

	readCalls  int
	writeCalls int

	// accepted call sizes:
	Writes []int
	Reads  []int

	Opens   int
	Closes  int
	Flushes int
}

func NewTarget(mem *target.Memory) *Target {
	return &Target{Machine: target.NewMachine(mem)}
}

// Driver returns a transport.Driver whose channels are bound to t.
func (t *Target) Driver() transport.Driver {
	return &Driver{target: t}
}

func (t *Target) Open() (*Channel, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Faults.FailOpens > 0 {
		t.Faults.FailOpens--
		return nil, fmt.Errorf("mock: target unavailable")
	}

	t.Opens++
	return &Channel{t: t}, nil
}

func (t *Target) chunk(n int) int {
	if t.Faults.MaxChunk > 0 && n > t.Faults.MaxChunk {
		return t.Faults.MaxChunk
	}
	return n
}

func (t *Target) write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writeCalls++
	if t.Faults.BreakOnWrite == t.writeCalls {
		return 0, transport.Broken("mock write", nil)
	}
	if t.Faults.ZeroWrites > 0 {
		t.Faults.ZeroWrites--
		return 0, nil
	}

	n := t.chunk(len(p))
	t.rx = append(t.rx, t.Machine.Feed(p[:n])...)
	t.Writes = append(t.Writes, n)
	return n, nil
}

func (t *Target) read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.readCalls++
	if t.Faults.BreakOnRead == t.readCalls {
		return 0, transport.Broken("mock read", nil)
	}
	if t.Faults.ZeroReads > 0 {
		t.Faults.ZeroReads--
		return 0, nil
	}

	n := copy(p[:t.chunk(len(p))], t.rx)
	t.rx = t.rx[n:]
	if n > 0 {
		t.Reads = append(t.Reads, n)
	}
	return n, nil
}

// Pending returns the number of response bytes not yet read by the host.
func (t *Target) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rx)
}

// WriteCalls returns the number of Write calls made, including faulted ones.
func (t *Target) WriteCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeCalls
}

func (t *Target) ReadCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readCalls
}
