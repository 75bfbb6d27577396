package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htif/target"
)

func TestImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boot.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x13, 0, 0, 0}, 0o644))

	var i images
	require.NoError(t, i.Set("0x80000000="+path))
	assert.Error(t, i.Set("80000000"))
	assert.Error(t, i.Set("zz="+path))
	assert.Equal(t, "80000000="+path, i.String())

	m := target.NewMachine(nil)
	require.NoError(t, i.load(m))
	assert.Equal(t, []byte{0x13, 0, 0, 0}, m.Memory.Dump(0x80000000, 4))
}
