package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type Opcode byte

const (
	// OpSetAddress sets the target cursor; 4-byte address payload.
	OpSetAddress Opcode = 'a'
	// OpWriteWord stores one word at the cursor, cursor += 4; 4-byte word payload.
	OpWriteWord Opcode = 'w'
	// OpReadBurst8 returns two words from the cursor, cursor += 8.
	OpReadBurst8 Opcode = 'R'
	// OpReadBurst4 returns one word from the cursor, cursor += 4.
	OpReadBurst4 Opcode = 'r'
)

const (
	WordSize    = 4
	PayloadSize = 4
	MaxBurst    = 8
)

var (
	ErrUnaligned     = errors.New("protocol: length is not a multiple of 4")
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
)

// Payload word order on the wire. The host writes its native representation; every supported
// host and the RV32 target are little-endian.
var ByteOrder = binary.LittleEndian

func (op Opcode) HasPayload() bool {
	return op == OpSetAddress || op == OpWriteWord
}

// Burst returns how many raw response bytes the target owes for op.
func (op Opcode) Burst() int {
	switch op {
	case OpReadBurst8:
		return 8
	case OpReadBurst4:
		return 4
	default:
		return 0
	}
}

func (op Opcode) Valid() bool {
	switch op {
	case OpSetAddress, OpWriteWord, OpReadBurst8, OpReadBurst4:
		return true
	}
	return false
}

func (op Opcode) String() string {
	return string(rune(op))
}

// Command is one record of the command stream.
type Command struct {
	Op  Opcode
	Arg uint32
}

func SetAddress(addr uint32) Command { return Command{Op: OpSetAddress, Arg: addr} }
func WriteWord(word uint32) Command  { return Command{Op: OpWriteWord, Arg: word} }

// WriteWordBytes wraps four raw input bytes without reinterpreting them.
func WriteWordBytes(b []byte) Command {
	return Command{Op: OpWriteWord, Arg: ByteOrder.Uint32(b[:WordSize])}
}

// Size is the encoded length of c.
func (c Command) Size() int {
	if c.Op.HasPayload() {
		return 1 + PayloadSize
	}
	return 1
}

func (c Command) Burst() int { return c.Op.Burst() }

// Encode returns the wire form of c.
func (c Command) Encode() []byte {
	return c.AppendTo(make([]byte, 0, c.Size()))
}

func (c Command) AppendTo(b []byte) []byte {
	b = append(b, byte(c.Op))
	if c.Op.HasPayload() {
		var p [PayloadSize]byte
		ByteOrder.PutUint32(p[:], c.Arg)
		b = append(b, p[:]...)
	}
	return b
}

func (c Command) String() string {
	if c.Op.HasPayload() {
		return fmt.Sprintf("%s,%08x", c.Op, c.Arg)
	}
	return c.Op.String()
}

// Decode reads one command from r.
// Bytes that are not opcodes are skipped, as the target does.
func Decode(r io.ByteReader) (c Command, err error) {
	for {
		var b byte
		b, err = r.ReadByte()
		if err != nil {
			return
		}
		c.Op = Opcode(b)
		if c.Op.Valid() {
			break
		}
	}

	if !c.Op.HasPayload() {
		return
	}

	var p [PayloadSize]byte
	for i := range p {
		p[i], err = r.ReadByte()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return
		}
	}
	c.Arg = ByteOrder.Uint32(p[:])
	return
}
