// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// BusinessIDKey is the context key for the owning business ID
	BusinessIDKey contextKey = "business_id"
	// TickIDKey is the context key for the batch tick ID
	TickIDKey contextKey = "tick_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports business_id and tick_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if businessID, ok := ctx.Value(BusinessIDKey).(string); ok && businessID != "" {
		newLogger = newLogger.WithBusinessID(businessID)
	}

	if tickID, ok := ctx.Value(TickIDKey).(string); ok && tickID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("tick_id", tickID)),
		}
	}

	return newLogger
}

// WithBusinessID returns a logger with the owning business ID
func (l *Logger) WithBusinessID(businessID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("business_id", businessID)),
	}
}

// TickSummary logs the outcome of one scheduler/executor tick
func (l *Logger) TickSummary(component string, processed, failed int, durationMs float64) {
	l.Info("tick_summary",
		slog.String("component", component),
		slog.Int("processed", processed),
		slog.Int("failed", failed),
		slog.Float64("duration_ms", durationMs),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// DeliveryFailure logs a failed outbound delivery (email, notification)
func (l *Logger) DeliveryFailure(channel, recipient string, err error) {
	l.Warn("delivery_failure",
		slog.String("channel", channel),
		slog.String("recipient", recipient),
		slog.String("error", err.Error()),
	)
}
