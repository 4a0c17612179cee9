package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_retries_total",
		Help: "Total number of retry attempts by method and error category",
	}, []string{"method", "category"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheets_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error category",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"category"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error category",
	}, []string{"category"})
)

// RetryPolicy holds the configuration for the retry engine. It is read at
// construction and never re-validated.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// InitialDelay is the backoff before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// Jitter is the upper bound of the uniform random delay added to every
	// backoff to prevent thundering herd.
	Jitter time.Duration
}

// DefaultRetryPolicy returns the default retry configuration.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Jitter:       1 * time.Second,
	}
}

// backoffDelay computes the wait before the retry following the given
// zero-based attempt index: min(initial * 2^attempt, max) + uniform jitter.
func backoffDelay(policy RetryPolicy, attempt int) time.Duration {
	delay := policy.InitialDelay << uint(attempt)
	if delay > policy.MaxDelay || delay <= 0 {
		delay = policy.MaxDelay
	}
	if policy.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(policy.Jitter)))
	}
	return delay
}

// withRetry executes fn with bounded exponential backoff. Every failure is
// classified; a non-retryable failure or the final attempt surfaces the last
// ClassifiedError, wrapping the original cause. The engine never swallows an
// error and never shares cooldown state across calls.
func withRetry(ctx context.Context, policy RetryPolicy, method string, fn func() error) error {
	var classified *ClassifiedError

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				log.Info().
					Str("method", method).
					Int("attempt", attempt+1).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		classified = Classify(err)

		if !classified.Retryable {
			return classified
		}

		if attempt == policy.MaxAttempts-1 {
			break
		}

		delay := backoffDelay(policy, attempt)
		retriesTotal.WithLabelValues(method, string(classified.Category)).Inc()
		retryBackoffSeconds.WithLabelValues(string(classified.Category)).Observe(delay.Seconds())

		log.Debug().
			Str("method", method).
			Str("category", string(classified.Category)).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			log.Warn().
				Str("method", method).
				Int("attempt", attempt+1).
				Msg("Context cancelled during retry backoff")
			return &ClassifiedError{
				StatusCode: classified.StatusCode,
				Code:       classified.Code,
				Category:   classified.Category,
				Retryable:  classified.Retryable,
				Message:    ErrContextCancelled.Error(),
				Err:        ctx.Err(),
			}
		case <-time.After(delay):
		}
	}

	retryExhaustedTotal.WithLabelValues(string(classified.Category)).Inc()
	log.Warn().
		Str("method", method).
		Str("category", string(classified.Category)).
		Int("max_attempts", policy.MaxAttempts).
		Msg("Retry attempts exhausted")

	return &ClassifiedError{
		StatusCode: classified.StatusCode,
		Code:       classified.Code,
		Category:   classified.Category,
		Retryable:  classified.Retryable,
		Message:    fmt.Sprintf("%s: %s", ErrRetryExhausted, classified.Message),
		Err:        classified.Err,
	}
}
