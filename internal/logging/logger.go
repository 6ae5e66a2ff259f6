package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// FileConfig controls where logs go when the terminal is owned by the TUI.
type FileConfig struct {
	Enabled       bool
	LogDir        string
	MaxSizeMB     int
	MaxBackups    int
	MaxAgeDays    int
	Compress      bool
	WriteToStderr bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger writing to stderr.
func New(cfg Config) zerolog.Logger {
	return newWithWriter(cfg, os.Stderr)
}

func newWithWriter(cfg Config, out io.Writer) zerolog.Logger {
	output := out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
			NoColor:    out != io.Writer(os.Stderr),
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewFromConfigValues creates a stderr logger from raw config strings.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	if format == "json" || format == "console" {
		cfg.Format = format
	}
	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables
// CARDEX_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// CARDEX_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	return NewFromConfigValues(os.Getenv("CARDEX_LOG_LEVEL"), os.Getenv("CARDEX_LOG_FORMAT"))
}

// NewWithFile creates a logger that writes to a rotated log file and,
// optionally, stderr. With file logging disabled and stderr off it returns
// a no-op logger. The returned cleanup closes the file.
func NewWithFile(cfg Config, fileCfg FileConfig) (zerolog.Logger, func(), error) {
	noop := func() {}

	var writers []io.Writer
	if fileCfg.WriteToStderr {
		writers = append(writers, os.Stderr)
	}

	var rotator *LogRotator
	if fileCfg.Enabled && fileCfg.LogDir != "" {
		var err error
		rotator, err = NewLogRotator(fileCfg)
		if err != nil {
			return zerolog.Nop(), noop, err
		}
		writers = append(writers, rotator)
	}

	if len(writers) == 0 {
		return zerolog.Nop(), noop, nil
	}

	logger := newWithWriter(cfg, io.MultiWriter(writers...))
	cleanup := noop
	if rotator != nil {
		cleanup = func() {
			if err := rotator.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
			}
		}
	}
	return logger, cleanup, nil
}
