// Package resilience wraps oracle calls with fortify retry and
// circuit-breaker patterns. The engine core performs no retries of
// its own; any resilience an oracle needs lives here.
package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// Config configures a resilient caller.
type Config struct {
	// RetryMaxAttempts is the maximum number of attempts.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// CircuitBreakerThreshold is the number of consecutive failures
	// before the circuit opens.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration

	// CallTimeout bounds a single attempt.
	CallTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:        3,
		RetryInitialDelay:       200 * time.Millisecond,
		RetryBackoffMultiplier:  2.0,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
		CallTimeout:             2 * time.Minute,
	}
}

// Caller executes a function with circuit breaker and retry applied.
type Caller[T any] struct {
	breaker circuitbreaker.CircuitBreaker[T]
	retry   retry.Retry[T]
	timeout time.Duration
}

// NewCaller creates a resilient caller with the given configuration.
func NewCaller[T any](config Config) *Caller[T] {
	threshold := config.CircuitBreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}

	return &Caller[T]{
		breaker: circuitbreaker.New[T](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold)
			},
		}),
		retry: retry.New[T](retry.Config{
			MaxAttempts:   config.RetryMaxAttempts,
			InitialDelay:  config.RetryInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    config.RetryBackoffMultiplier,
		}),
		timeout: config.CallTimeout,
	}
}

// Call runs fn with timeout, circuit breaker, and retry applied, in
// that composition order.
func (c *Caller[T]) Call(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	return c.breaker.Execute(ctx, func(ctx context.Context) (T, error) {
		return c.retry.Do(ctx, fn)
	})
}
