package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/AlibekovAA/credential-service/internal/observability/metrics"
)

// HandleQueryError records the query duration and maps errors matching
// noRows to notFoundErr. Other errors are counted and wrapped.
func HandleQueryError(err, noRows, notFoundErr error, store, operation string, startTime time.Time) error {
	MeasureQueryDuration(store, operation, startTime)

	if err == nil {
		return nil
	}
	if noRows != nil && errors.Is(err, noRows) {
		return notFoundErr
	}
	metrics.DBQueryErrors.WithLabelValues(operation, store, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleExecError records the duration of a write. Errors matching one of
// passthrough are returned unwrapped and not counted as failures.
func HandleExecError(err error, store, operation string, startTime time.Time, passthrough ...error) error {
	MeasureQueryDuration(store, operation, startTime)

	if err == nil {
		return nil
	}
	for _, p := range passthrough {
		if errors.Is(err, p) {
			return p
		}
	}
	metrics.DBQueryErrors.WithLabelValues(operation, store, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(store, operation string, startTime time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, store).Observe(time.Since(startTime).Seconds())
}
