package cartkit

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with cartkit-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithTree adds a tree field to the logger.
func (l *Logger) WithTree(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("tree", name),
	}
}

// LogLoad logs the loading of one tree.
func (l *Logger) LogLoad(ctx context.Context, tree string, nodes int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "tree load failed",
			"tree", tree,
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "tree loaded",
		"tree", tree,
		"nodes", nodes,
		"bytes", bytes,
	)
}

// LogSave logs the saving of one tree.
func (l *Logger) LogSave(ctx context.Context, tree string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "tree save failed",
			"tree", tree,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "tree saved",
		"tree", tree,
		"bytes", bytes,
	)
}

// LogClassify logs one classification.
func (l *Logger) LogClassify(ctx context.Context, tree string, leaf int, err error) {
	if err != nil {
		l.WarnContext(ctx, "classify failed",
			"tree", tree,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "classified",
		"tree", tree,
		"leaf", leaf,
	)
}
