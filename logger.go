package colgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with colgo-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithColumn adds a column name field to the logger.
func (l *Logger) WithColumn(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", name),
	}
}

// WithFormat adds a format string field to the logger.
func (l *Logger) WithFormat(format string) *Logger {
	return &Logger{
		Logger: l.Logger.With("format", format),
	}
}

// WithLength adds an element count field to the logger.
func (l *Logger) WithLength(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("length", n),
	}
}

// LogImport logs an import operation.
func (l *Logger) LogImport(ctx context.Context, format string, length int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "import failed",
			"format", format,
			"length", length,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "import completed",
			"format", format,
			"length", length,
		)
	}
}

// LogExport logs an export operation.
func (l *Logger) LogExport(ctx context.Context, format string, length int) {
	l.DebugContext(ctx, "export completed",
		"format", format,
		"length", length,
	)
}

// LogValidation logs a batch validation pass.
func (l *Logger) LogValidation(ctx context.Context, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "validation failed",
			"columns", columns,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "validation completed",
			"columns", columns,
		)
	}
}
