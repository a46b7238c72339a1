package attendance

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/attendance-tracker/internal/logging"
	"github.com/example/attendance-tracker/internal/policy"
	"github.com/example/attendance-tracker/internal/timetable"
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

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateDate):
		return "duplicate_date"
	case errors.Is(err, policy.ErrInvalidInput):
		return "invalid_policy_input"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}
	var timeErr *timetable.ErrMalformedTime
	if errors.As(err, &timeErr) {
		return "malformed_time"
	}
	var dayErr *timetable.ErrUnknownWeekday
	if errors.As(err, &dayErr) {
		return "unknown_weekday"
	}

	return "unexpected"
}
