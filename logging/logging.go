// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, format, and destination.
type Config struct {
	Level  string `yaml:"level"`  // debug/info/warn/error
	Format string `yaml:"format"` // console/json
	Output string `yaml:"output"` // stdout/stderr
}

// DefaultConfig is console output at info level.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stderr"}
}

// New builds a logger from the config.
func New(cfg Config) zerolog.Logger {
	var out io.Writer
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
