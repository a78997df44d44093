// Package log provides structured logging for genoml training runs.
//
// It defines a minimal, slog-compatible Logger interface with a zerolog-backed
// default implementation, standard attribute keys for pipeline operations
// (variant, fold, grid point, scores), and a buffer-backed test logger.
package log

import (
	"context"
)

// Logger is a structured logging interface compatible with log/slog
// conventions. Fields are alternating key-value pairs.
type Logger interface {
	// Debug logs detailed diagnostic information.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs potentially problematic conditions that do not stop the run,
	// such as solver non-convergence for one grid point.
	Warn(msg string, fields ...any)

	// Error logs error conditions. If the first field is an error, stack
	// trace information is attached when available.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
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

// LoggerProvider creates and configures loggers. It allows dependency
// injection and test substitution of the logging backend.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers from this provider.
	SetLevel(level Level)
}
