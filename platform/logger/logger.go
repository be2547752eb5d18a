// Package logger wraps slog with the event-style helpers the rest of the
// codebase logs through.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

// Logger embeds slog.Logger, so the generic Info/Warn/Error calls work
// alongside the named helpers below.
type Logger struct {
	*slog.Logger
}

// New builds the process logger. Development gets human-readable text at
// debug level; anything else gets JSON at info.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithContext folds request_id and user_id from ctx into the logger when
// present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	out := l
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		out = &Logger{Logger: out.With(slog.String("request_id", requestID))}
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		out = &Logger{Logger: out.With(slog.String("user_id", userID))}
	}
	return out
}

// HTTPRequest is the access-log line emitted by the request middleware.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// Disposition records a committed lead disposition. This is the audit line
// for the QC action itself.
func (l *Logger) Disposition(leadID, status string, override bool, reviewerID string) {
	l.Info("lead_disposition",
		slog.String("lead_id", leadID),
		slog.String("status", status),
		slog.Bool("override_qualified", override),
		slog.String("reviewer_id", reviewerID),
	)
}

// EvidenceUploadFailed records a non-fatal evidence upload failure.
func (l *Logger) EvidenceUploadFailed(leadID string, err error) {
	l.Warn("evidence_upload_failed",
		slog.String("lead_id", leadID),
		slog.String("error", err.Error()),
	)
}

// DuplicateCheckFailed records a swallowed batch duplicate-check failure.
func (l *Logger) DuplicateCheckFailed(leadID string, err error) {
	l.Warn("duplicate_check_failed",
		slog.String("lead_id", leadID),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
