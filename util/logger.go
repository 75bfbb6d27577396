package util

import (
	"io"
	"log"
	"os"
	"runtime/debug"
)

// PanicSafeLogger tees log output to a file and stderr and can sync the file
// before the process dies.
type PanicSafeLogger struct {
	f  *os.File
	mw io.Writer
}

var std *PanicSafeLogger

// NewPanicSafeLogger writes to f and console; a nil console means stderr.
func NewPanicSafeLogger(f *os.File, console io.Writer) *PanicSafeLogger {
	if console == nil {
		console = os.Stderr
	}
	std = &PanicSafeLogger{
		f:  f,
		mw: io.MultiWriter(f, console),
	}
	return std
}

// OpenLogFile points the standard logger at path as well as console.
// An empty path leaves the standard logger alone.
func OpenLogFile(path string, console io.Writer) (l *PanicSafeLogger, err error) {
	if path == "" {
		return
	}

	var f *os.File
	f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}

	l = NewPanicSafeLogger(f, console)
	log.SetOutput(l)
	return
}

func (l *PanicSafeLogger) Write(p []byte) (n int, err error) {
	return l.mw.Write(p)
}

func (l *PanicSafeLogger) Flush() error {
	return l.f.Sync()
}

func (l *PanicSafeLogger) Close() error {
	_ = l.f.Sync()
	return l.f.Close()
}

func FlushLogger() error {
	if std == nil {
		return nil
	}
	return std.Flush()
}

func LogPanic(err any) {
	log.Printf("paniced with %v\n%s\n", err, string(debug.Stack()))
	_ = FlushLogger()
}
