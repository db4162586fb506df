package lattice

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lattice-specific context.
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
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
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

// WithCollection adds a collection field to the logger.
func (l *Logger) WithCollection(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("collection", name),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(collection, id string, err error) {
	if err != nil {
		l.Error("insert failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.Debug("insert completed",
			"collection", collection,
			"id", id,
		)
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(collection, mode string, conditions, matches int) {
	l.Debug("query completed",
		"collection", collection,
		"mode", mode,
		"conditions", conditions,
		"matches", matches,
	)
}

// LogMigration logs a schema migration.
func (l *Logger) LogMigration(collection string, version int, migrated int, err error) {
	if err != nil {
		l.Error("schema migration failed",
			"collection", collection,
			"error", err,
		)
	} else {
		l.Info("schema migration completed",
			"collection", collection,
			"version", version,
			"records_migrated", migrated,
		)
	}
}

// LogSnapshot logs a save operation.
func (l *Logger) LogSnapshot(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
			"compressed_bytes", size,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, name string, collections int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"name", name,
			"collections", collections,
		)
	}
}
