package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"

	"htif/bridge"
	"htif/protocol"
	"htif/transport"
)

type Kind int

const (
	OpWrite Kind = iota
	OpRead
)

func (k Kind) String() string {
	if k == OpRead {
		return "read"
	}
	return "write"
}

// Op is one top-level operation of an invocation.
type Op struct {
	Kind    Kind
	Address uint32
	// Length is only used by OpRead.
	Length uint32
}

func (o Op) String() string {
	if o.Kind == OpRead {
		return fmt.Sprintf("read %08x %x", o.Address, o.Length)
	}
	return fmt.Sprintf("write %08x", o.Address)
}

// Session drives write and read operations against one target.
type Session struct {
	cfg   Config
	state State

	link *bridge.Link
	buf  *bridge.Buffer

	stopped time.Time
}

// Open connects to the target through driver.
func Open(driver transport.Driver, selector string, opts ...Option) (s *Session, err error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Name == "" {
		cfg.Name = driver.DisplayName()
	}

	s = &Session{cfg: cfg}
	s.move(Connecting)

	linkOpts := []bridge.Option{
		bridge.WithBackoff(cfg.Backoff),
		bridge.WithLogger(cfg.Logger),
		bridge.WithName(cfg.Name),
	}
	if cfg.Verbose {
		linkOpts = append(linkOpts, bridge.WithProgress(cfg.Progress))
	}

	s.link, err = bridge.Dial(driver, selector, linkOpts...)
	if err != nil {
		s.move(Closed)
		return nil, err
	}
	s.buf = bridge.NewBuffer(s.link, cfg.BufferSize)

	if cfg.Verbose {
		if info, ok := s.link.Info(); ok {
			cfg.Logger.Printf("%s\n", info)
			if info.Warning != "" {
				cfg.Logger.Printf("Warning: %s\n", info.Warning)
			}
		}
	}

	s.move(Streaming)
	return s, nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Stats() *bridge.Stats { return s.link.Stats() }

func (s *Session) move(to State) {
	if !s.state.canMove(to) {
		panic(fmt.Sprintf("session: invalid transition %s -> %s", s.state, to))
	}
	s.state = to
}

func (s *Session) streaming() error {
	if s.state != Streaming {
		return fmt.Errorf("session: cannot stream while %s", s.state)
	}
	return nil
}

func (s *Session) send(ctx context.Context, cmd protocol.Command) error {
	return s.buf.Append(ctx, cmd.Encode())
}

// Write stores the words read from r at successive addresses from addr.
// A trailing partial word is discarded.
func (s *Session) Write(ctx context.Context, addr uint32, r io.Reader) error {
	if err := s.streaming(); err != nil {
		return err
	}

	if err := s.send(ctx, protocol.SetAddress(addr)); err != nil {
		return err
	}

	var word [protocol.WordSize]byte
	for words := 0; ; words++ {
		n, err := io.ReadFull(r, word[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			if s.cfg.Verbose {
				s.cfg.Logger.Printf("%s: discarding %d trailing bytes after %d words\n", s.cfg.Name, n, words)
			}
			break
		}
		if err != nil {
			return fmt.Errorf("session: write %08x: reading input: %w", addr, err)
		}

		if err = s.send(ctx, protocol.WriteWordBytes(word[:])); err != nil {
			return err
		}
	}

	return s.buf.Flush(ctx, true)
}

// Read fetches length bytes from addr and writes them to w in address order.
func (s *Session) Read(ctx context.Context, addr, length uint32, w io.Writer) error {
	if err := s.streaming(); err != nil {
		return err
	}

	err := protocol.CheckLength(length)
	if err != nil {
		return err
	}

	if err = s.send(ctx, protocol.SetAddress(addr)); err != nil {
		return err
	}

	data := make([]byte, 0, length)
	var pending protocol.Pending
	consume := func() error {
		// the target must have seen every command before we wait on it:
		if err := s.buf.Flush(ctx, true); err != nil {
			return err
		}
		n, _ := pending.Pop()
		chunk := data[len(data) : len(data)+n]
		if err := s.link.ReadExact(ctx, chunk); err != nil {
			return err
		}
		data = data[:len(data)+n]
		return nil
	}

	for remaining := length; ; {
		cmd, ok := protocol.NextBurst(remaining)
		if !ok {
			break
		}
		remaining -= uint32(cmd.Burst())

		if err = s.send(ctx, cmd); err != nil {
			return err
		}
		pending.Push(cmd)

		if pending.Len() >= s.cfg.Window {
			if err = consume(); err != nil {
				return err
			}
		}
	}
	for pending.Len() > 0 {
		if err = consume(); err != nil {
			return err
		}
	}

	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("session: read %08x: writing output: %w", addr, err)
	}
	return nil
}

// Run executes ops in order; write operations take their data from in and
// read operations emit theirs to out.
func (s *Session) Run(ctx context.Context, ops []Op, in io.Reader, out io.Writer) error {
	for _, op := range ops {
		var err error
		switch op.Kind {
		case OpWrite:
			err = s.Write(ctx, op.Address, in)
		case OpRead:
			err = s.Read(ctx, op.Address, op.Length, out)
		default:
			err = fmt.Errorf("session: unknown operation %d", op.Kind)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Close flushes anything still buffered and closes the link.
func (s *Session) Close(ctx context.Context) (err error) {
	if s.state == Closed {
		return nil
	}

	s.move(Flushing)
	err = s.buf.Flush(ctx, true)
	s.stopped = time.Now()

	if cerr := s.link.Close(); cerr != nil && err == nil {
		err = cerr
	}
	s.move(Closed)
	return
}

func (s *Session) elapsed() time.Duration {
	st := s.link.Stats()
	if s.stopped.IsZero() {
		return time.Since(st.Start)
	}
	return s.stopped.Sub(st.Start)
}

// Report prints the elapsed time and throughput; when verbose it adds a
// histogram of transport call sizes.
func (s *Session) Report(w io.Writer) error {
	st := s.link.Stats()
	d := s.elapsed()

	_, err := fmt.Fprintf(w, "\nTook %.2f s, %.1f kB/s\n", d.Seconds(), st.Throughput(d))
	if err != nil {
		return err
	}
	if !s.cfg.Verbose {
		return nil
	}

	_, err = fmt.Fprintf(w, "%d bytes in %d calls, %d retries, %d reconnects\n",
		st.Total, len(st.Calls), st.Retries, st.Reconnects)
	if err != nil || len(st.Calls) == 0 {
		return err
	}

	sizes := make([]float64, len(st.Calls))
	uniform := true
	for i, n := range st.Calls {
		sizes[i] = float64(n)
		uniform = uniform && n == st.Calls[0]
	}
	if uniform {
		_, err = fmt.Fprintf(w, "every call moved %d bytes\n", st.Calls[0])
		return err
	}
	bins := 8
	if len(sizes) < bins {
		bins = len(sizes)
	}
	return histogram.Fprint(w, histogram.Hist(bins, sizes), histogram.Linear(40))
}
