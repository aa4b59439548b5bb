// Package logger provides structured logging functionality for the application.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// contextKey is the private type for context values stored by this package.
type contextKey struct{}

// loggerKey is the context key under which a request-scoped logger is stored.
var loggerKey = contextKey{}

// Setup initializes and configures the application's logging system based on
// the provided log level. It creates a structured JSON logger writing to
// stdout and sets it as the default logger for the application.
//
// An unrecognized level falls back to info and emits a warning through a
// temporary text logger, so misconfiguration is visible but not fatal.
func Setup(logLevel string) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo

		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", logLevel,
			"default_level", "info")
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	// Set this logger as the default for the application so the slog package
	// functions (slog.Info, slog.Error, etc.) can be used directly.
	slog.SetDefault(logger)

	return logger, nil
}

// WithLogger returns a copy of the context carrying the given logger.
// Handlers and middleware use this to propagate request-scoped attributes
// (like trace IDs) into lower layers.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger stored in the context, falling back to
// the process-wide default logger when none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
