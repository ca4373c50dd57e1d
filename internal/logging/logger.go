// Package logging defines a minimal structured-logging interface used across
// the project together with slog and zerolog implementations.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "snapshot saved", "path", path, "encrypted", true)
type Logger interface {
	// Debug logs diagnostic details that are off by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Output formats understood by New.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a Logger writing to w. The text format uses slog; json and
// console use zerolog. Unknown levels fall back to info.
func New(format, level string, w io.Writer) Logger {
	switch strings.ToLower(format) {
	case FormatJSON, FormatConsole:
		return NewZerologLogger(w, level, strings.ToLower(format) == FormatConsole)
	default:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseSlogLevel(level)})
		return NewSlogLogger(slog.New(h))
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parseSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
