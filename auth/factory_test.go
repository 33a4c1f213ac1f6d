package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonwraymond/reqslots/exchange"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	factory := func(cfg map[string]any) (Decorator, error) {
		return func(next exchange.Transport) exchange.Transport { return next }, nil
	}

	t.Run("successful registration", func(t *testing.T) {
		if err := reg.Register("test", factory); err != nil {
			t.Errorf("Register() error = %v", err)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		if err := reg.Register("test", factory); err == nil {
			t.Error("Register() should error on duplicate")
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if err := reg.Register("", factory); err == nil {
			t.Error("Register() should error on empty name")
		}
	})

	t.Run("nil factory", func(t *testing.T) {
		if err := reg.Register("nil_factory", nil); err == nil {
			t.Error("Register() should error on nil factory")
		}
	})
}

func TestRegistry_CreateUnknown(t *testing.T) {
	if _, err := NewRegistry().Create("nope", nil); !errors.Is(err, ErrUnknownScheme) {
		t.Fatalf("expected ErrUnknownScheme, got %v", err)
	}
}

func TestDefaultRegistry_BuiltIns(t *testing.T) {
	want := []string{"api_key", "bearer", "client_credentials", "jwt"}
	got := DefaultRegistry.List()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

// TestDefaultRegistry_Create verifies built-in schemes decorate requests.
func TestDefaultRegistry_Create(t *testing.T) {
	tests := []struct {
		name    string
		scheme  string
		cfg     map[string]any
		header  string
		prefix  string
		wantErr error
	}{
		{name: "bearer", scheme: "bearer", cfg: map[string]any{"token": "abc"}, header: "Authorization", prefix: "Bearer abc"},
		{name: "api key", scheme: "api_key", cfg: map[string]any{"key": "k", "header_name": "X-Key"}, header: "X-Key", prefix: "k"},
		{name: "jwt", scheme: "jwt", cfg: map[string]any{"secret": "s", "issuer": "me", "ttl": "1m"}, header: "Authorization", prefix: "Bearer ey"},
		{name: "bearer missing token", scheme: "bearer", cfg: map[string]any{}, wantErr: ErrMissingCredentials},
		{name: "jwt missing secret", scheme: "jwt", cfg: map[string]any{}, wantErr: ErrMissingSigningKey},
		{name: "client credentials missing url", scheme: "client_credentials", cfg: map[string]any{"client_id": "c"}, wantErr: ErrMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := DefaultRegistry.Create(tt.scheme, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			capture := &captureTransport{}
			_, _ = dec(capture.do)(context.Background(), &exchange.Request{})
			if got := capture.got.Headers.Get(tt.header); !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("%s = %q, want prefix %q", tt.header, got, tt.prefix)
			}
		})
	}
}

func TestDefaultRegistry_InvalidDuration(t *testing.T) {
	if _, err := DefaultRegistry.Create("jwt", map[string]any{"secret": "s", "ttl": "soon"}); err == nil {
		t.Fatal("expected error for invalid ttl")
	}
}
