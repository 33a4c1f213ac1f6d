package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// Entry is a stored response and the time it was stored.
type Entry struct {
	Time     time.Time
	Response *exchange.Response
}

// Store holds cache entries by key.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (Entry{}, false) on miss.
// - Expiry: stores do not expire entries; the Engine decides freshness.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, e Entry)
	// Delete is idempotent.
	Delete(ctx context.Context, key string)
	// Expire deletes key only while its entry is still the one stored at
	// storedAt, and reports whether it did.
	Expire(ctx context.Context, key string, storedAt time.Time) bool
	// Purge removes every entry.
	Purge(ctx context.Context)
	Len() int
}

// MemoryStore is an unbounded in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	return e, ok
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry) {
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *MemoryStore) Expire(_ context.Context, key string, storedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.Time.Equal(storedAt) {
		return false
	}
	delete(s.entries, key)
	return true
}

func (s *MemoryStore) Purge(_ context.Context) {
	s.mu.Lock()
	clear(s.entries)
	s.mu.Unlock()
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
