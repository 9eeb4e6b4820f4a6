package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
}

// New creates a new structured logger
func New() *Logger {
	return NewWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewWithLevel creates a logger with specific log level
func NewWithLevel(level slog.Level) *Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{Logger: logger}
}

// NewForTesting creates a logger for testing (discards output)
func NewForTesting() *Logger {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{Logger: logger}
}

// With returns a logger carrying the given attributes on every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to info
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
