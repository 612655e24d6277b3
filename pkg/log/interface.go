// Package log provides structured logging for the model-selection pipeline.
//
// This package defines a minimal, slog-compatible logging interface that
// allows for flexible implementation switching while providing ML-specific
// structured logging. The interface integrates with Go's standard log/slog
// package and can be backed by other logging libraries.
//
// Key features:
//   - slog-compatible interface
//   - standard attribute keys for models, data shapes and metrics
//   - context loggers with field chaining via With
//   - test-friendly in-memory implementation (TestLogger)
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ModelNameKey, "linear.Ridge",
//	    log.SerialNumberKey, "module_0",
//	)
//	logger.Info("Grid search started",
//	    log.OperationKey, log.OperationSearch,
//	    log.GridSizeKey, 12,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface is implementation-agnostic so backends can be swapped while
// keeping a consistent API. It supports contextual loggers through With.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If an error value is provided as a field, stack trace information
	// may be automatically included by the handler.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
// It allows dependency injection and testing with different implementations.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers from this provider.
	SetLevel(level Level)
}
