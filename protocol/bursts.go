package protocol

// CheckLength reports whether length bytes can be read with bursts.
func CheckLength(length uint32) error {
	if length%WordSize != 0 {
		return ErrUnaligned
	}
	return nil
}

// NextBurst picks the largest burst that does not overshoot the remaining length.
// It returns false once nothing is left.
func NextBurst(remaining uint32) (Command, bool) {
	switch {
	case remaining >= 8:
		return Command{Op: OpReadBurst8}, true
	case remaining >= 4:
		return Command{Op: OpReadBurst4}, true
	default:
		return Command{}, false
	}
}

// Pending tracks the sizes of bursts that were requested but not yet consumed,
// in request order. Responses carry no framing so this is the only way to know
// how many bytes the next response holds.
type Pending struct {
	sizes []int
}

func (p *Pending) Push(cmd Command) {
	if n := cmd.Burst(); n > 0 {
		p.sizes = append(p.sizes, n)
	}
}

// Pop returns the size of the oldest outstanding burst.
func (p *Pending) Pop() (n int, ok bool) {
	if len(p.sizes) == 0 {
		return 0, false
	}
	n = p.sizes[0]
	p.sizes = p.sizes[1:]
	return n, true
}

func (p *Pending) Len() int { return len(p.sizes) }
