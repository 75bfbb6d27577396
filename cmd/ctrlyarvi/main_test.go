package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"/dev/ttyUSB0"},
		{"/dev/ttyUSB0", "read", "0"},
		{"/dev/ttyUSB0", "read", "0", "4", "write", "0"},
	} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 1, run("ctrlyarvi", args, nil, &stdout, &stderr), args)
		assert.Contains(t, stderr.String(), "Usage: ctrlyarvi $PORT")
	}
}

func TestRun_OpenFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run("ctrlyarvi", []string{"/dev/htif-test-missing", "read", "0", "4"}, nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "error opening /dev/htif-test-missing")
	assert.NotContains(t, stderr.String(), "is open")
}
