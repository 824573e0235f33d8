package db

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	commonerrors "github.com/AlibekovAA/credential-service/internal/common/errors"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
	"github.com/AlibekovAA/credential-service/internal/observability/metrics"
)

// DBCircuitBreaker rejects calls for resetAfter once threshold consecutive
// failures were recorded.
type DBCircuitBreaker struct {
	name        string
	failures    atomic.Int32
	lastFailure atomic.Value
	threshold   int32
	timeout     time.Duration
	resetAfter  time.Duration
	now         func() time.Time
	log         *logger.Logger
}

func NewDBCircuitBreaker(name string, threshold int32, timeout, resetAfter time.Duration, log *logger.Logger) *DBCircuitBreaker {
	cb := &DBCircuitBreaker{
		name:       name,
		threshold:  threshold,
		timeout:    timeout,
		resetAfter: resetAfter,
		now:        time.Now,
		log:        log,
	}
	cb.lastFailure.Store(time.Time{})
	return cb
}

func (cb *DBCircuitBreaker) isOpen() bool {
	if cb.failures.Load() < cb.threshold {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(0)
		return false
	}

	lastFailure := cb.lastFailure.Load().(time.Time)
	if lastFailure.IsZero() {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(0)
		return false
	}

	if cb.now().Sub(lastFailure) > cb.resetAfter {
		cb.reset()
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(0)
		return false
	}

	metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(1)
	return true
}

func (cb *DBCircuitBreaker) recordFailure() {
	cb.failures.Add(1)
	cb.lastFailure.Store(cb.now())
	metrics.CircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	cb.log.Warnf("%s circuit breaker: failure recorded", cb.name)
}

func (cb *DBCircuitBreaker) reset() {
	cb.failures.Store(0)
	cb.lastFailure.Store(time.Time{})
}

// Call runs fn with a deadline. A non-nil error from fn counts as a failure,
// unless ctx itself was cancelled or expired: that is the caller leaving, and
// it leaves the breaker state untouched.
func (cb *DBCircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.isOpen() {
		cb.log.Warnf("%s circuit breaker: circuit is open, rejecting request", cb.name)
		return commonerrors.ErrCircuitOpen
	}

	callCtx, cancel := context.WithTimeout(ctx, cb.timeout)
	defer cancel()

	err := fn(callCtx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		cb.recordFailure()
		return err
	}

	cb.reset()
	return nil
}
