package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of transport attempts allowed per second.
	// Default: 100
	Rate float64

	// Burst is the maximum burst size.
	// Default: 10
	Burst int

	// WaitOnLimit waits for a token instead of returning an error.
	// Default: false
	WaitOnLimit bool

	// MaxWait is the maximum time to wait for a token.
	// Default: 1 second
	MaxWait time.Duration

	// Clock defaults to the system clock.
	Clock exchange.Clock
}

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	config RateLimiterConfig

	mu          sync.Mutex
	tokens      float64
	lastRefresh time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 100
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}
	if config.Clock == nil {
		config.Clock = exchange.SystemClock()
	}

	return &RateLimiter{
		config:      config,
		tokens:      float64(config.Burst),
		lastRefresh: config.Clock.Now(),
	}
}

// Allow checks if an attempt is allowed under the rate limit.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN checks if n attempts are allowed.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.AllowN(1) {
		return nil
	}

	rl.mu.Lock()
	waitTime := time.Duration((1 - rl.tokens) / rl.config.Rate * float64(time.Second))
	rl.mu.Unlock()

	if waitTime > rl.config.MaxWait {
		waitTime = rl.config.MaxWait
	}

	if err := rl.config.Clock.Sleep(ctx, waitTime); err != nil {
		return err
	}
	if rl.AllowN(1) {
		return nil
	}
	return ErrRateLimitExceeded
}

// Hit runs one transport attempt if the rate limit allows it.
func (rl *RateLimiter) Hit(ctx context.Context, req *exchange.Request, next exchange.Transport) (*exchange.Response, error) {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return nil, exchange.ContextError(err, req)
		}
	} else if !rl.Allow() {
		return nil, ErrRateLimitExceeded
	}

	return next(ctx, req)
}

func (rl *RateLimiter) refillLocked() {
	now := rl.config.Clock.Now()
	elapsed := now.Sub(rl.lastRefresh)
	rl.lastRefresh = now

	rl.tokens += elapsed.Seconds() * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset resets the rate limiter to full capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.config.Burst)
	rl.lastRefresh = rl.config.Clock.Now()
}

// Ensure RateLimiter implements exchange.Engine
var _ exchange.Engine = (*RateLimiter)(nil)
