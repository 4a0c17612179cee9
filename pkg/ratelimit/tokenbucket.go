package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenBucketConfig configures the token bucket limiter.
type TokenBucketConfig struct {
	// MaxTokens is the bucket capacity. The bucket starts full.
	// Default: 10.
	MaxTokens float64

	// RefillRate is the continuous refill in tokens per second.
	// Default: 1.
	RefillRate float64
}

// DefaultTokenBucketConfig returns a configuration matching roughly one
// request per second with short bursts.
func DefaultTokenBucketConfig() TokenBucketConfig {
	return TokenBucketConfig{
		MaxTokens:  10,
		RefillRate: 1,
	}
}

// TokenBucket holds a capped, continuously refilling pool of permits. It has
// no concept of remote failure; Record is a no-op.
type TokenBucket struct {
	cfg TokenBucketConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

var _ Limiter = (*TokenBucket)(nil)

// NewTokenBucket creates a full bucket.
func NewTokenBucket(cfg TokenBucketConfig) *TokenBucket {
	def := DefaultTokenBucketConfig()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.RefillRate <= 0 {
		cfg.RefillRate = def.RefillRate
	}
	return &TokenBucket{
		cfg:        cfg,
		tokens:     cfg.MaxTokens,
		lastRefill: time.Now(),
	}
}

// Acquire takes one token, blocking until it is available.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	return b.AcquireN(ctx, 1)
}

// AcquireN blocks until n tokens are available, then consumes them. The wait
// re-checks availability after sleeping rather than reserving, so concurrent
// acquirers race fairly for refilled tokens.
func (b *TokenBucket) AcquireN(ctx context.Context, n float64) error {
	if n > b.cfg.MaxTokens {
		return fmt.Errorf("cannot acquire %g tokens from a bucket of %g", n, b.cfg.MaxTokens)
	}

	waited := false
	start := time.Now()
	for {
		b.mu.Lock()
		b.refillLocked(time.Now())
		if b.tokens >= n {
			b.tokens -= n
			tokensAvailable.Set(b.tokens)
			b.mu.Unlock()
			if waited {
				waitsTotal.WithLabelValues("token_bucket").Inc()
				waitSeconds.WithLabelValues("token_bucket").Observe(time.Since(start).Seconds())
			}
			return nil
		}
		wait := time.Duration((n - b.tokens) / b.cfg.RefillRate * float64(time.Second))
		b.mu.Unlock()

		waited = true
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// AvailableTokens returns the current token count after applying the same
// refill computation an acquirer would trigger. It never exceeds MaxTokens.
func (b *TokenBucket) AvailableTokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked(time.Now())
	return b.tokens
}

// Record is a no-op: remote failures are not the bucket's concern.
func (b *TokenBucket) Record(err error) {}

// Reset refills the bucket to capacity.
func (b *TokenBucket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = b.cfg.MaxTokens
	b.lastRefill = time.Now()
	tokensAvailable.Set(b.tokens)
}

// refillLocked credits tokens for the time elapsed since the last refill,
// capped at capacity.
func (b *TokenBucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.cfg.RefillRate
	if b.tokens > b.cfg.MaxTokens {
		b.tokens = b.cfg.MaxTokens
	}
	b.lastRefill = now
	tokensAvailable.Set(b.tokens)
}
