// Package logging threads request-scoped slog loggers through context values
// so lower layers log with the request attributes already attached.
package logging

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// ContextWithLogger stores logger in a derived context. A nil context or
// logger leaves ctx untouched.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or nil when none was
// attached. Callers pick their own fallback; the package never substitutes
// slog.Default so tests can assert on the absence of a request logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return nil
}
