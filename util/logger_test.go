package util

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLogFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	l, err := OpenLogFile("", nil)
	require.NoError(t, err)
	assert.Nil(t, l)

	path := filepath.Join(t.TempDir(), "htif.log")
	console := &bytes.Buffer{}
	l, err = OpenLogFile(path, console)
	require.NoError(t, err)
	require.NotNil(t, l)

	log.Printf("tty: flush error\n")
	require.NoError(t, FlushLogger())
	log.SetOutput(os.Stderr)
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "tty: flush error")
	assert.Contains(t, console.String(), "tty: flush error")
}
