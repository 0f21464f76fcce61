package terse

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with terse-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithJob adds the job index to the logger.
func (l *Logger) WithJob(index int) *Logger {
	return &Logger{
		Logger: l.Logger.With("job", index),
	}
}

// WithAsset adds an asset location to the logger.
func (l *Logger) WithAsset(location string) *Logger {
	return &Logger{
		Logger: l.Logger.With("asset", location),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogLoad logs the loading of a document.
func (l *Logger) LogLoad(ctx context.Context, location string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"location", location,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"location", location,
			"bytes", size,
		)
	}
}

// LogSave logs the saving of a document.
func (l *Logger) LogSave(ctx context.Context, location string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"location", location,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "save completed",
			"location", location,
			"bytes", size,
		)
	}
}

// LogCommand logs one edit command.
func (l *Logger) LogCommand(ctx context.Context, index int, op string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "command failed",
			"command", index,
			"op", op,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "command applied",
			"command", index,
			"op", op,
		)
	}
}

// LogJob logs the outcome of a whole job.
func (l *Logger) LogJob(ctx context.Context, input, output string, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "job failed",
			"input", input,
			"output", output,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "job completed",
			"input", input,
			"output", output,
			"elapsed", elapsed,
		)
	}
}
