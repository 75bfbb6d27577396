package session

import (
	"io"
	"log"
	"os"

	"htif/bridge"
	"htif/protocol"
)

// the buffer must hold the largest command:
const minBufferSize = 1 + protocol.PayloadSize

// Config holds the session configuration.
type Config struct {
	// BufferSize is the capacity of the write coalescing buffer.
	BufferSize int

	// Window is the number of read bursts kept in flight before the oldest
	// response is consumed. 1 issues, flushes and consumes one burst at a time.
	Window int

	Verbose bool

	// Progress receives the retry/reconnect markers when Verbose is set.
	Progress io.Writer

	Logger *log.Logger

	Backoff bridge.Backoff

	// Name prefixes log lines.
	Name string
}

func defaultConfig() Config {
	return Config{
		BufferSize: bridge.DefaultBufferSize,
		Window:     1,
		Progress:   os.Stderr,
		Logger:     log.Default(),
		Backoff:    bridge.DefaultBackoff(),
	}
}

type Option func(*Config)

func WithBufferSize(size int) Option {
	return func(c *Config) {
		if size >= minBufferSize {
			c.BufferSize = size
		}
	}
}

func WithWindow(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Window = n
		}
	}
}

func WithVerbose(verbose bool) Option {
	return func(c *Config) {
		c.Verbose = verbose
	}
}

func WithProgress(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.Progress = w
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func WithBackoff(b bridge.Backoff) Option {
	return func(c *Config) {
		c.Backoff = b
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}
