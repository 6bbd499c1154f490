// Package logging builds the service's structured JSON logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request id in ctx for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestContextHandler adds the request id of the context to every record.
type requestContextHandler struct {
	handler slog.Handler
}

func (h *requestContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *requestContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.handler.Handle(ctx, r)
}

func (h *requestContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *requestContextHandler) WithGroup(name string) slog.Handler {
	return &requestContextHandler{handler: h.handler.WithGroup(name)}
}

// New returns a JSON logger writing to w at the given level.
func New(w io.Writer, level, service, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	handler := &requestContextHandler{handler: slog.NewJSONHandler(w, opts)}

	return slog.New(handler).With(
		slog.String("service", service),
		slog.String("environment", environment),
	)
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
