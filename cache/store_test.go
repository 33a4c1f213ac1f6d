package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// TestMemoryStore_GetSetDelete verifies basic operations.
func TestMemoryStore_GetSetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss on empty store")
	}

	now := time.Now()
	s.Set(ctx, "k", Entry{Time: now, Response: &exchange.Response{Status: 200}})
	e, ok := s.Get(ctx, "k")
	if !ok || !e.Time.Equal(now) || e.Response.Status != 200 {
		t.Fatalf("unexpected entry %+v ok=%v", e, ok)
	}

	s.Delete(ctx, "k")
	s.Delete(ctx, "k") // idempotent
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryStore_ExpireKeepsNewerEntry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := old.Add(time.Minute)

	s.Set(ctx, "k", Entry{Time: fresh, Response: &exchange.Response{Status: 200}})
	if s.Expire(ctx, "k", old) {
		t.Fatal("Expire removed an entry stored after the expired one")
	}
	if _, ok := s.Get(ctx, "k"); !ok {
		t.Fatal("fresh entry missing")
	}
	if !s.Expire(ctx, "k", fresh) {
		t.Fatal("Expire did not remove the matching entry")
	}
	if s.Expire(ctx, "k", fresh) {
		t.Fatal("Expire on a missing key reported true")
	}
}

func TestMemoryStore_PurgeAndLen(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.Set(ctx, fmt.Sprintf("k%d", i), Entry{})
	}
	if s.Len() != 5 {
		t.Fatalf("expected 5, got %d", s.Len())
	}
	s.Purge(ctx)
	if s.Len() != 0 {
		t.Fatalf("expected 0, got %d", s.Len())
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			s.Set(ctx, key, Entry{Time: time.Now()})
			s.Get(ctx, key)
			if i%7 == 0 {
				s.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}
