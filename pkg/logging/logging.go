package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a slog.Logger writing to stderr based on LOG_LEVEL.
// Stdout is left to command output.
func NewLogger(levelString string) *slog.Logger {
	return NewLoggerWithWriter(levelString, os.Stderr)
}

// NewLoggerWithWriter creates a text slog.Logger writing to output.
func NewLoggerWithWriter(levelString string, output io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: ParseLevel(levelString),
	})
	return slog.New(handler)
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to slog levels, defaulting to INFO.
func ParseLevel(levelString string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelString)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
