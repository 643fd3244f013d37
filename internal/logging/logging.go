// Package logging carries request-scoped slog loggers through contexts so
// services and handlers annotate one logger instead of rebuilding attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

// ContextWithLogger returns a derived context carrying the logger. A nil
// logger leaves the context unchanged.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger attached to the context, or nil when the
// request carries none. Callers fall back to their own base logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(contextKey{}).(*slog.Logger)
	return logger
}

// Discard returns a logger that drops every record. Used where a logger is
// required but output is unwanted, such as tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
