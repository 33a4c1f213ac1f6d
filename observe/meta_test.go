package observe

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/jonwraymond/reqslots/exchange"
)

// TestMetaFor verifies method, host, path and request ID extraction.
func TestMetaFor(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	req := &exchange.Request{
		BaseURL: "https://api.example.com/v1",
		URL:     "/users",
		Params:  url.Values{"page": {"2"}},
	}

	meta := MetaFor(ctx, req)
	if meta.ID != "req-1" {
		t.Errorf("ID = %q", meta.ID)
	}
	if meta.Method != "GET" {
		t.Errorf("Method = %q, want GET", meta.Method)
	}
	if meta.Host != "api.example.com" {
		t.Errorf("Host = %q", meta.Host)
	}
	if meta.Path != "/v1/users" {
		t.Errorf("Path = %q", meta.Path)
	}
	if got := meta.Endpoint(); got != "api.example.com/v1/users" {
		t.Errorf("Endpoint = %q", got)
	}
	if got := meta.SpanName(); got != "http.client GET" {
		t.Errorf("SpanName = %q", got)
	}
}

// TestRequestMeta_Endpoint verifies the root path is rendered as "/".
func TestRequestMeta_Endpoint(t *testing.T) {
	meta := RequestMeta{Method: "GET", Host: "example.com"}
	if got := meta.Endpoint(); got != "example.com/" {
		t.Errorf("Endpoint = %q", got)
	}
}

// TestRequestMeta_Validate verifies the method is required.
func TestRequestMeta_Validate(t *testing.T) {
	if err := (RequestMeta{}).Validate(); !errors.Is(err, ErrMissingMethod) {
		t.Fatalf("expected ErrMissingMethod, got %v", err)
	}
	if err := (RequestMeta{Method: "POST"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRequestIDFrom_Empty verifies a bare context carries no ID.
func TestRequestIDFrom_Empty(t *testing.T) {
	if id := RequestIDFrom(context.Background()); id != "" {
		t.Fatalf("expected empty ID, got %q", id)
	}
}
