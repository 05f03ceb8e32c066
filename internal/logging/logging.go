// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Verbose forces debug level.
	Verbose bool
	// Output defaults to stderr.
	Output io.Writer
}

// New returns a text logger for cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: Level(cfg)}))
}

// Setup installs the logger for cfg as the slog default.
func Setup(cfg Config) *slog.Logger {
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}

// Level resolves the effective level. Verbose wins over the configured level.
func Level(cfg Config) slog.Level {
	if cfg.Verbose {
		return slog.LevelDebug
	}
	return parseLevel(cfg.Level)
}

// parseLevel converts string level to slog.Level. Unknown and empty levels
// mean warn, so a plain run only prints problems.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
