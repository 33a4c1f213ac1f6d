package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// fakeClock advances instantly and records every sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// scriptedTransport returns outcomes in order, repeating the last one.
type scriptedTransport struct {
	mu       sync.Mutex
	calls    int
	outcomes []func(req *exchange.Request) (*exchange.Response, error)
}

func (s *scriptedTransport) do(_ context.Context, req *exchange.Request) (*exchange.Response, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.mu.Unlock()
	if i >= len(s.outcomes) {
		i = len(s.outcomes) - 1
	}
	return s.outcomes[i](req)
}

func (s *scriptedTransport) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func ok(body string) func(*exchange.Request) (*exchange.Response, error) {
	return func(req *exchange.Request) (*exchange.Response, error) {
		return &exchange.Response{Status: 200, Data: []byte(body), Request: req}, nil
	}
}

func statusErr(code int) func(*exchange.Request) (*exchange.Response, error) {
	return func(req *exchange.Request) (*exchange.Response, error) {
		return nil, exchange.NewStatusError(&exchange.Response{Status: code, Request: req}, code)
	}
}

func networkErr() func(*exchange.Request) (*exchange.Response, error) {
	return func(req *exchange.Request) (*exchange.Response, error) {
		return nil, &exchange.Error{Message: "Network Error", Code: exchange.CodeNetwork, Request: req}
	}
}
