// Package log provides the structured logging interface used by featurizers.
//
// The interface is slog-compatible so the backend can be swapped; the default
// backend is zerolog. Featurizers only log flagged conditions (for example a
// flush that drops unresolved nulls) at warn level and lifecycle events at
// debug level, never per-value output.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.FeaturizerKey, "BackwardFillImputer",
//	    log.ValueTypeKey, "int64",
//	)
//	logger.Debug("training completed", log.OperationKey, log.OperationCompleteTraining)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. If the first field passed
// to Error is an error value it is attached as the error field together with
// its stack trace.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. A leading error value is handled
	// specially.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
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

// LoggerProvider creates and configures loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
