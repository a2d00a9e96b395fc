// Package config parses command-line flags, with environment fallbacks,
// into the device configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sweeney/airfish/internal/gpio"
)

// Config is the startup configuration. Walk speed, screen timeout, screen
// size and comfort threshold are build-time constants in package logic.
type Config struct {
	GPIOChip   string
	ButtonPin  int
	I2CBus     string
	Poll       time.Duration
	LogLevel   slog.Level
	LogFormat  string
	PrintState bool
	Sim        bool
}

// Load parses args (without the program name). Each flag defaults to the
// named environment variable when set, then to the built-in default.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	fs := flag.NewFlagSet("airfish", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	envOr := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	buttonPin, err := strconv.Atoi(envOr("AIRFISH_BUTTON_PIN", strconv.Itoa(gpio.DefaultPin)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid AIRFISH_BUTTON_PIN: %w", err)
	}
	poll, err := time.ParseDuration(envOr("AIRFISH_POLL", "2ms"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid AIRFISH_POLL: %w", err)
	}

	var cfg Config
	var logLevel string
	fs.StringVar(&cfg.GPIOChip, "gpio-chip", envOr("AIRFISH_GPIO_CHIP", gpio.DefaultChip), "GPIO character device for the button")
	fs.IntVar(&cfg.ButtonPin, "pin", buttonPin, "GPIO line offset of the button (active-low)")
	fs.StringVar(&cfg.I2CBus, "i2c", envOr("AIRFISH_I2C_BUS", ""), "I2C bus name (empty for the first bus)")
	fs.DurationVar(&cfg.Poll, "poll", poll, "Control loop tick interval")
	fs.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", envOr("LOG_FORMAT", "text"), "Log format: text or json")
	fs.BoolVar(&cfg.PrintState, "print-state", false, "Print one sensor reading as JSON and exit")
	fs.BoolVar(&cfg.Sim, "sim", false, "Run the desktop simulator instead of hardware")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.LogLevel, err = ParseLogLevel(logLevel); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.Poll)
	}
	if c.ButtonPin < 0 {
		return fmt.Errorf("button pin must not be negative, got %d", c.ButtonPin)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (allowed: text, json)", c.LogFormat)
	}
	return nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (allowed: debug, info, warn, error)", s)
	}
}
