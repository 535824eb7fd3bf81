package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/AlibekovAA/blog-api/internal/common/clock"
	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
	"github.com/AlibekovAA/blog-api/internal/observability/metrics"
)

type CircuitBreaker struct {
	failures    atomic.Int32
	lastFailure atomic.Value
	threshold   int32
	timeout     time.Duration
	resetAfter  time.Duration
	name        string
	log         *logger.Logger
	clock       clock.Clock
	isFailure   func(error) bool
}

type CircuitBreakerConfig struct {
	Threshold  int32
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	Logger     *logger.Logger
	Clock      clock.Clock
	// IsFailure decides which errors count towards opening the circuit.
	// Defaults to IsInfrastructureError.
	IsFailure func(error) bool
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	cb := &CircuitBreaker{
		threshold:  config.Threshold,
		timeout:    config.Timeout,
		resetAfter: config.ResetAfter,
		name:       config.Name,
		log:        config.Logger,
		clock:      config.Clock,
		isFailure:  config.IsFailure,
	}
	if cb.clock == nil {
		cb.clock = clock.NewRealClock()
	}
	if cb.isFailure == nil {
		cb.isFailure = IsInfrastructureError
	}
	cb.lastFailure.Store(time.Time{})
	return cb
}

// IsInfrastructureError is true for errors that say something about the
// health of the dependency: domain errors and caller cancellation are not.
func IsInfrastructureError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !commonerrors.IsDomainError(err)
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.failures.Load() < cb.threshold {
		cb.setState(0)
		return false
	}

	lastFailure := cb.lastFailure.Load().(time.Time)
	if lastFailure.IsZero() {
		cb.setState(0)
		return false
	}

	if cb.clock.Now().Sub(lastFailure) > cb.resetAfter {
		cb.reset()
		cb.setState(0)
		return false
	}

	cb.setState(1)
	return true
}

func (cb *CircuitBreaker) setState(state float64) {
	if cb.name != "" {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(state)
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.failures.Add(1)
	cb.lastFailure.Store(cb.clock.Now())
	if cb.name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	}
	if cb.log != nil {
		cb.log.Warnf("circuit breaker [%s]: failure recorded", cb.name)
	}
}

func (cb *CircuitBreaker) reset() {
	cb.failures.Store(0)
	cb.lastFailure.Store(time.Time{})
}

func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.IsOpen() {
		if cb.log != nil {
			cb.log.Warnf("circuit breaker [%s]: circuit is open, rejecting request", cb.name)
		}
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	if err != nil {
		if cb.isFailure(err) {
			cb.recordFailure()
		}
		return err
	}

	cb.reset()
	return nil
}
