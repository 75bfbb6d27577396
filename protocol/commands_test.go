package protocol

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Encode(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{"set address", SetAddress(0x80000000), []byte{'a', 0x00, 0x00, 0x00, 0x80}},
		{"write word", WriteWord(0x11223344), []byte{'w', 0x44, 0x33, 0x22, 0x11}},
		{"read 8", Command{Op: OpReadBurst8}, []byte{'R'}},
		{"read 4", Command{Op: OpReadBurst4}, []byte{'r'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cmd.Encode()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), tt.cmd.Size())
		})
	}
}

func TestWriteWordBytes_PreservesInput(t *testing.T) {
	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	cmd := WriteWordBytes(raw)
	assert.Equal(t, append([]byte{'w'}, raw...), cmd.Encode())
}

func TestDecode(t *testing.T) {
	var stream []byte
	stream = SetAddress(0x1000).AppendTo(stream)
	stream = append(stream, '\n', 'x')
	stream = WriteWord(7).AppendTo(stream)
	stream = Command{Op: OpReadBurst8}.AppendTo(stream)
	stream = Command{Op: OpReadBurst4}.AppendTo(stream)

	r := bufio.NewReader(bytes.NewReader(stream))
	var got []string
	for {
		cmd, err := Decode(r)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, cmd.String())
	}
	assert.Equal(t, []string{"a,00001000", "w,00000007", "R", "r"}, got)
}

func TestDecode_TruncatedPayload(t *testing.T) {
	_, err := Decode(strings.NewReader("a\x01\x02"))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestOpcode_Burst(t *testing.T) {
	assert.Equal(t, 8, OpReadBurst8.Burst())
	assert.Equal(t, 4, OpReadBurst4.Burst())
	assert.Equal(t, 0, OpSetAddress.Burst())
	assert.Equal(t, 0, OpWriteWord.Burst())
	assert.False(t, Opcode('x').Valid())
}
