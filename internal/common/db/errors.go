package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/blog-api/internal/observability/metrics"
)

const uniqueViolationCode = "23505"

func extractTableFromOperation(operation string) string {
	operation = strings.ToLower(operation)
	if strings.Contains(operation, "post") {
		return "posts"
	}
	if strings.Contains(operation, "comment") {
		return "comments"
	}
	if strings.Contains(operation, "user") {
		return "users"
	}
	return "unknown"
}

// IsUniqueViolation reports whether err carries the postgres unique_violation code.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func HandleQueryError(err error, notFoundErr error, operation string, startTime time.Time) error {
	MeasureQueryDuration(operation, startTime)

	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	recordQueryError(operation, err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, operation string, startTime time.Time) error {
	MeasureQueryDuration(operation, startTime)

	if err == nil {
		return nil
	}
	recordQueryError(operation, err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(operation string, startTime time.Time) {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}

func recordQueryError(operation string, err error) {
	errorType := fmt.Sprintf("%T", err)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		errorType = "pg_" + pgErr.Code
	}
	metrics.DBQueryErrors.WithLabelValues(operation, extractTableFromOperation(operation), errorType).Inc()
}
