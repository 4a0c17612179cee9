package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ariadng/sheets/pkg/client"
	"github.com/ariadng/sheets/pkg/logging"
)

// AdaptiveConfig configures the adaptive limiter.
type AdaptiveConfig struct {
	// Window is the duration of the sliding request window.
	// Default: 1 minute.
	Window time.Duration

	// MaxRequests is the soft cap of requests inside the window.
	// Default: 60.
	MaxRequests int

	// SafetyMargin is added to the wait when the window is full.
	// Default: 100ms.
	SafetyMargin time.Duration

	// BaseDelay seeds the extra per-call delay after the first rate-limit
	// failure. Default: 500ms.
	BaseDelay time.Duration

	// MaxDelay is the ceiling of the extra per-call delay.
	// Default: 10s.
	MaxDelay time.Duration
}

// DefaultAdaptiveConfig returns a configuration suited to the Sheets API's
// per-minute quota.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		Window:       time.Minute,
		MaxRequests:  60,
		SafetyMargin: 100 * time.Millisecond,
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

// AdaptiveStats is a snapshot of the limiter's internal state.
type AdaptiveStats struct {
	SuccessRate   float64
	CurrentDelay  time.Duration
	WindowedCalls int
}

// Adaptive is a sliding-window limiter with a per-call delay that reacts to
// rate-limit failures. State persists across calls and is never reset except
// explicitly.
type Adaptive struct {
	cfg    AdaptiveConfig
	logger zerolog.Logger

	mu          sync.Mutex
	timestamps  []time.Time
	successRate float64
	delay       time.Duration
}

var _ Limiter = (*Adaptive)(nil)

// NewAdaptive creates an adaptive limiter.
func NewAdaptive(cfg AdaptiveConfig) *Adaptive {
	def := DefaultAdaptiveConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.SafetyMargin <= 0 {
		cfg.SafetyMargin = def.SafetyMargin
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	return &Adaptive{
		cfg:         cfg,
		logger:      logging.NewLogger("ratelimit"),
		successRate: 1.0,
	}
}

// Acquire applies the current adaptive delay, then blocks while the sliding
// window is full. The request's timestamp enters the window on admission.
func (a *Adaptive) Acquire(ctx context.Context) error {
	start := time.Now()
	waited := false

	a.mu.Lock()
	delay := a.delay
	a.mu.Unlock()

	if delay > 0 {
		waited = true
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	for {
		a.mu.Lock()
		now := time.Now()
		a.pruneLocked(now)

		if len(a.timestamps) < a.cfg.MaxRequests {
			a.timestamps = append(a.timestamps, now)
			a.mu.Unlock()
			if waited {
				waitsTotal.WithLabelValues("adaptive").Inc()
				waitSeconds.WithLabelValues("adaptive").Observe(time.Since(start).Seconds())
			}
			return nil
		}

		// Wait for the oldest timestamp to leave the window.
		wait := a.timestamps[0].Add(a.cfg.Window).Sub(now) + a.cfg.SafetyMargin
		a.mu.Unlock()

		waited = true
		a.logger.Debug().Dur("wait", wait).Msg("Request window full, waiting")
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Record nudges the success-rate estimate up and decays the extra delay on
// success; a rate-limit-classified failure halves the estimate and grows the
// delay toward the ceiling. Other failures leave the state untouched. Record
// never swallows the error; the caller re-raises it.
func (a *Adaptive) Record(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err == nil {
		a.successRate = min(1.0, a.successRate*1.1)
		a.delay = time.Duration(float64(a.delay) * 0.9)
		if a.delay < time.Millisecond {
			a.delay = 0
		}
		adaptiveDelay.Set(a.delay.Seconds())
		return
	}

	if client.Classify(err).Category != client.CategoryRateLimit {
		return
	}

	a.successRate /= 2
	if a.delay == 0 {
		a.delay = a.cfg.BaseDelay
	} else {
		a.delay *= 2
	}
	if a.delay > a.cfg.MaxDelay {
		a.delay = a.cfg.MaxDelay
	}
	adaptiveDelay.Set(a.delay.Seconds())

	a.logger.Warn().
		Float64("success_rate", a.successRate).
		Dur("delay", a.delay).
		Msg("Rate limit hit, increasing adaptive delay")
}

// Stats returns a snapshot of the limiter state.
func (a *Adaptive) Stats() AdaptiveStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked(time.Now())
	return AdaptiveStats{
		SuccessRate:   a.successRate,
		CurrentDelay:  a.delay,
		WindowedCalls: len(a.timestamps),
	}
}

// Reset clears the window and restores the initial estimates.
func (a *Adaptive) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timestamps = nil
	a.successRate = 1.0
	a.delay = 0
	adaptiveDelay.Set(0)
}

// pruneLocked drops timestamps that have left the window.
func (a *Adaptive) pruneLocked(now time.Time) {
	cutoff := now.Add(-a.cfg.Window)
	i := 0
	for i < len(a.timestamps) && !a.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		a.timestamps = append(a.timestamps[:0], a.timestamps[i:]...)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
