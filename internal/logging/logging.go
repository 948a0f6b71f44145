// Package logging provides the structured logger shared by the backends.
//
// It wraps log/slog with a no-op default so that backends can log
// unconditionally: a backend constructed without a logger pays only for a nil
// check.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

// Supported log levels.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger provides structured logging for backends.
// The zero value and a nil *Logger discard every message.
type Logger struct {
	logger *slog.Logger
}

// LogConfig holds configuration for NewLogger.
type LogConfig struct {
	// Level sets the minimum log level.
	Level LogLevel
	// EnableCallerInfo includes file and line number in logs.
	EnableCallerInfo bool
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
	// Output receives log records. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultLogConfig returns a default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: LogLevelInfo}
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(config LogConfig) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.EnableCallerInfo,
	}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &Logger{logger: slog.New(handler)}
}

// FromSlog wraps an existing slog logger. A nil logger yields a no-op logger.
func FromSlog(l *slog.Logger) *Logger {
	return &Logger{logger: l}
}

// NewNopLogger creates a no-op logger that discards all log messages.
func NewNopLogger() *Logger {
	return &Logger{}
}

// Slog returns the underlying slog logger, or nil for a no-op logger.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return nil
	}
	return l.logger
}

func (l *Logger) enabled() bool {
	return l != nil && l.logger != nil
}

// Debug logs debug-level messages
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	if l.enabled() {
		l.logger.DebugContext(ctx, msg, args...)
	}
}

// Info logs info-level messages
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l.enabled() {
		l.logger.InfoContext(ctx, msg, args...)
	}
}

// Warn logs warning-level messages
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l.enabled() {
		l.logger.WarnContext(ctx, msg, args...)
	}
}

// Error logs error-level messages
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l.enabled() {
		l.logger.ErrorContext(ctx, msg, args...)
	}
}

// With returns a logger with additional context fields
func (l *Logger) With(args ...any) *Logger {
	if !l.enabled() {
		return l
	}
	return &Logger{logger: l.logger.With(args...)}
}

// WithScheme returns a logger tagged with a backend scheme.
func (l *Logger) WithScheme(scheme string) *Logger {
	return l.With("scheme", scheme)
}

// WithLocation returns a logger tagged with a backend location.
func (l *Logger) WithLocation(location string) *Logger {
	return l.With("location", location)
}

// WithOperation returns a logger with operation context
func (l *Logger) WithOperation(operation Operation) *Logger {
	return l.With("operation", string(operation))
}

// Operation names a backend operation for logging.
type Operation string

// Operation constants for backend operations.
const (
	OpInit       Operation = "init"
	OpStat       Operation = "stat"
	OpReadDir    Operation = "readdir"
	OpReadFile   Operation = "readfile"
	OpReadStream Operation = "createreadstream"
	OpWriteFile  Operation = "writefile"
	OpCopyFile   Operation = "copyfile"
	OpUnlink     Operation = "unlink"
)

// LogOperation logs the outcome of a backend operation. Successes are
// logged at debug level, failures at warn level.
func LogOperation(
	ctx context.Context,
	logger *Logger,
	operation Operation,
	path string,
	duration time.Duration,
	err error,
) {
	if !logger.enabled() {
		return
	}

	fields := []any{
		"operation", string(operation),
		"path", path,
		"duration_ms", duration.Milliseconds(),
		"success", err == nil,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		logger.Warn(ctx, "operation failed", fields...)
		return
	}
	logger.Debug(ctx, "operation completed", fields...)
}

// LogStateChange logs a lifecycle transition.
func LogStateChange(ctx context.Context, logger *Logger, from, to fmt.Stringer, err error) {
	if !logger.enabled() {
		return
	}

	if err != nil {
		logger.Error(ctx, "backend state changed",
			"from", from.String(),
			"to", to.String(),
			"error", err.Error())
		return
	}
	logger.Info(ctx, "backend state changed",
		"from", from.String(),
		"to", to.String())
}

// ParseLogLevel parses a string log level into a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}
