package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitLogger_Lines(t *testing.T) {
	var lines []string
	l := &CommitLogger{Committer: func(p []byte) { lines = append(lines, string(p)) }}

	_, _ = l.Write([]byte("sim: first\nsim: sec"))
	_, _ = l.Write([]byte("ond\n"))
	_, _ = l.Write([]byte("tail"))
	assert.Equal(t, []string{"sim: first", "sim: second"}, lines)

	l.Commit()
	assert.Equal(t, []string{"sim: first", "sim: second", "tail"}, lines)
}

func TestCommitLogger_Reserve(t *testing.T) {
	l := &CommitLogger{}
	_, _ = l.Write([]byte("abc"))
	l.Reserve(64)
	assert.GreaterOrEqual(t, cap(l.buf), 64)
	assert.Equal(t, "abc", string(l.buf))
}
