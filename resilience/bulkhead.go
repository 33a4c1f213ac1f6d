package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the maximum number of concurrent transport attempts.
	// Default: 10
	MaxConcurrent int

	// MaxWait is the maximum time to wait for a slot.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration
}

// Bulkhead limits concurrent transport attempts.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}

	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

func (b *Bulkhead) admitted() {
	b.mu.Lock()
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

func (b *Bulkhead) reject() error {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
	return ErrBulkheadFull
}

// Acquire acquires a slot in the bulkhead.
// Returns ErrBulkheadFull if no slot is available within MaxWait.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		b.admitted()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		return b.reject()
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		b.admitted()
		return nil
	case <-timer.C:
		return b.reject()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases a slot in the bulkhead.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
	}
}

// Hit runs one transport attempt within the bulkhead.
func (b *Bulkhead) Hit(ctx context.Context, req *exchange.Request, next exchange.Transport) (*exchange.Response, error) {
	if err := b.Acquire(ctx); err != nil {
		return nil, exchange.ContextError(err, req)
	}
	defer b.Release()

	return next(ctx, req)
}

// Stats returns current bulkhead statistics.
func (b *Bulkhead) Stats() BulkheadStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadStats{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

// BulkheadStats contains bulkhead statistics.
type BulkheadStats struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
	Rejected      int64
}

// Ensure Bulkhead implements exchange.Engine
var _ exchange.Engine = (*Bulkhead)(nil)
