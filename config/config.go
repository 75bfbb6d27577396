package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"htif/bridge"
)

// Environment variables consulted by Load.
const (
	EnvConfig  = "HTIF_CONFIG"
	EnvDriver  = "HTIF_DRIVER"
	EnvPort    = "HTIF_PORT"
	EnvVerbose = "HTIF_VERBOSE"
	EnvBuffer  = "HTIF_BUFFER"
	EnvWindow  = "HTIF_WINDOW"
	EnvPoll    = "HTIF_POLL"
	EnvRetries = "HTIF_RETRIES"
	EnvLog     = "HTIF_LOG"
)

type Config struct {
	Driver   string `yaml:"driver"`
	Selector string `yaml:"port"`
	Verbose  bool   `yaml:"verbose"`

	BufferSize   int      `yaml:"buffer_size"`
	Window       int      `yaml:"window"`
	PollInterval Duration `yaml:"poll_interval"`
	// RetryLimit bounds consecutive attempts without progress; 0 retries forever.
	RetryLimit int `yaml:"retry_limit"`

	LogFile string `yaml:"log_file"`
}

type Duration struct{ time.Duration }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = dd
	return nil
}

func Default() Config {
	return Config{
		BufferSize:   bridge.DefaultBufferSize,
		Window:       1,
		PollInterval: Duration{bridge.DefaultPollInterval},
	}
}

// Backoff returns the polling policy described by c.
func (c *Config) Backoff() bridge.Backoff {
	return bridge.Backoff{Interval: c.PollInterval.Duration, Limit: c.RetryLimit}
}

// LoadFile merges the YAML document at path over c.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err = yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// LoadEnv overrides c with any HTIF_* variables found through getenv.
func (c *Config) LoadEnv(getenv func(string) string) (err error) {
	if v := getenv(EnvDriver); v != "" {
		c.Driver = v
	}
	if v := getenv(EnvPort); v != "" {
		c.Selector = v
	}
	if v := getenv(EnvVerbose); v != "" {
		c.Verbose = IsTruthy(v)
	}
	if v := getenv(EnvLog); v != "" {
		c.LogFile = v
	}
	if err = envInt(getenv, EnvBuffer, &c.BufferSize); err != nil {
		return
	}
	if err = envInt(getenv, EnvWindow, &c.Window); err != nil {
		return
	}
	if err = envInt(getenv, EnvRetries, &c.RetryLimit); err != nil {
		return
	}
	if v := getenv(EnvPoll); v != "" {
		var d time.Duration
		if d, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("config: %s: %w", EnvPoll, err)
		}
		c.PollInterval.Duration = d
	}
	return
}

func envInt(getenv func(string) string, name string, dst *int) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}
	*dst = n
	return nil
}

// RegisterFlags binds the command-line flags to c. Defaults shown are the
// values already in c, so flags parsed afterwards win over file and env.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "verbose: connection info, retry markers and transfer report")
	fs.StringVar(&c.Driver, "d", c.Driver, "transport driver")
	fs.StringVar(&c.Selector, "p", c.Selector, "driver specific port selector")
	fs.IntVar(&c.BufferSize, "buffer", c.BufferSize, "write buffer capacity in bytes")
	fs.IntVar(&c.Window, "window", c.Window, "read bursts kept in flight")
	fs.DurationVar(&c.PollInterval.Duration, "poll", c.PollInterval.Duration, "wait after the transport reports nothing ready")
	fs.IntVar(&c.RetryLimit, "retries", c.RetryLimit, "give up after this many attempts without progress (0: never)")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "also write log output to this file")
}

func (c *Config) Validate() error {
	if c.BufferSize < 5 {
		return fmt.Errorf("config: buffer size %d too small", c.BufferSize)
	}
	if c.Window < 1 {
		return fmt.Errorf("config: window %d must be at least 1", c.Window)
	}
	if c.PollInterval.Duration < 0 {
		return fmt.Errorf("config: negative poll interval")
	}
	if c.RetryLimit < 0 {
		return fmt.Errorf("config: negative retry limit")
	}
	return nil
}

// Load builds the configuration from defaults, the file named by HTIF_CONFIG
// and the environment. Flags are applied by the caller through RegisterFlags.
func Load() (Config, error) {
	c := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		if err := c.LoadFile(path); err != nil {
			return c, err
		}
	}
	if err := c.LoadEnv(os.Getenv); err != nil {
		return c, err
	}
	return c, nil
}

func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}
