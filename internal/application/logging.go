package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/rest-planning/internal/interval"
	"github.com/example/rest-planning/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and structured errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCorruptRange):
		return "corrupt_range"
	case errors.Is(err, ErrStorage):
		return "storage"
	}

	var (
		vErr       *ValidationError
		invalidErr *interval.InvalidSegmentError
		invErr     *interval.InvertedSegmentError
		overlapErr *interval.OverlapError
		gapErr     *interval.CoverageGapError
		scopeErr   *ScopeViolationError
		unitErr    *UnassignedUnitError
	)
	switch {
	case errors.As(err, &vErr):
		return "validation"
	case errors.As(err, &invalidErr):
		return "invalid_segment"
	case errors.As(err, &invErr):
		return "inverted_segment"
	case errors.As(err, &overlapErr):
		return "overlap"
	case errors.As(err, &gapErr):
		return "coverage_gap"
	case errors.As(err, &scopeErr):
		return "scope_violation"
	case errors.As(err, &unitErr):
		return "unassigned_unit"
	}

	return "unexpected"
}
