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
	// RunIDKey is the context key for the batch run ID
	RunIDKey contextKey = "run_id"
	// RepKey is the context key for the representative being processed
	RepKey contextKey = "rep"
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
// Supports run_id and rep from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if runID, ok := ctx.Value(RunIDKey).(string); ok && runID != "" {
		newLogger = newLogger.WithRunID(runID)
	}

	if rep, ok := ctx.Value(RepKey).(string); ok && rep != "" {
		newLogger = newLogger.WithRep(rep)
	}

	return newLogger
}

// WithRunID returns a logger with the batch run ID attached
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("run_id", runID)),
	}
}

// WithRep returns a logger with the representative key attached
func (l *Logger) WithRep(rep string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("rep", rep)),
	}
}

// CollaboratorError logs a failed call to an external collaborator.
// Collaborator failures degrade a single unit of work, never the whole run,
// so they are logged at WARN.
func (l *Logger) CollaboratorError(collaborator, operation string, err error) {
	l.Warn("collaborator_error",
		slog.String("collaborator", collaborator),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// DataIntegrity flags a computed value that falls outside its expected range.
// The value is reported as-is; the flag exists so the ingestion boundary can
// be audited.
func (l *Logger) DataIntegrity(rep, metric string, value float64) {
	l.Warn("data_integrity",
		slog.String("rep", rep),
		slog.String("metric", metric),
		slog.Float64("value", value),
	)
}

// RunEvent logs a lifecycle event of a batch run.
func (l *Logger) RunEvent(event, runID, date string) {
	l.Info("run_event",
		slog.String("event", event),
		slog.String("run_id", runID),
		slog.String("date", date),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}
