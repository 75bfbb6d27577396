package cli

import (
	"fmt"
	"strconv"
	"strings"

	"htif/protocol"
	"htif/session"
)

// UsageError reports a malformed command line. Nothing has been sent to the
// target when it is returned.
type UsageError struct {
	Args []string
	Msg  string
}

func (e *UsageError) Error() string {
	if len(e.Args) == 0 {
		return "usage: " + e.Msg
	}
	return fmt.Sprintf("usage: %s at %q", e.Msg, strings.Join(e.Args, " "))
}

func usagef(args []string, format string, a ...interface{}) *UsageError {
	return &UsageError{Args: args, Msg: fmt.Sprintf(format, a...)}
}

// ParseHex parses a 32-bit hexadecimal number with an optional 0x prefix.
func ParseHex(s string) (uint32, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if t == "" {
		return 0, fmt.Errorf("bad hex number %q", s)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad hex number %q", s)
	}
	return uint32(v), nil
}

// ParseOps parses a sequence of "write ADDR" and "read ADDR LEN" operations.
func ParseOps(args []string) (ops []session.Op, err error) {
	if len(args) == 0 {
		return nil, usagef(nil, "no operation given")
	}

	for len(args) > 0 {
		switch args[0] {
		case "write":
			if len(args) < 2 {
				return nil, usagef(args, "write needs ADDR")
			}
			var addr uint32
			if addr, err = ParseHex(args[1]); err != nil {
				return nil, usagef(args, "%v", err)
			}
			ops = append(ops, session.Op{Kind: session.OpWrite, Address: addr})
			args = args[2:]

		case "read":
			if len(args) < 3 {
				return nil, usagef(args, "read needs ADDR LEN")
			}
			var addr, length uint32
			if addr, err = ParseHex(args[1]); err != nil {
				return nil, usagef(args, "%v", err)
			}
			if length, err = ParseHex(args[2]); err != nil {
				return nil, usagef(args, "%v", err)
			}
			if protocol.CheckLength(length) != nil {
				return nil, usagef(args, "LEN %x is not a multiple of %d", length, protocol.WordSize)
			}
			ops = append(ops, session.Op{Kind: session.OpRead, Address: addr, Length: length})
			args = args[3:]

		default:
			return nil, usagef(args, "unknown operation %q", args[0])
		}
	}
	return
}

// Usage is the help text of the bridge commands.
const Usage = `usage:
  htif [-v] [-d driver] [-p selector] (write ADDR | read ADDR LEN)...

  htif write $ADDR < $binary_file
  htif read $ADDR $LEN > $binary_file
      where $ADDR and $LEN are hexadecimal and $LEN is a multiple of 4
`
