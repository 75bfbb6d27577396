package util

import (
	"log"
	"testing"
)

func NewTestingLogger(tb testing.TB) *CommitLogger {
	return &CommitLogger{
		Committer: func(p []byte) {
			tb.Log(string(p))
		},
		buf: nil,
	}
}

// NewTestLog returns a *log.Logger whose lines end up in the test output.
func NewTestLog(tb testing.TB) *log.Logger {
	return log.New(NewTestingLogger(tb), "", 0)
}
