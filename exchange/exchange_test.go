package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestCloneResponse_Isolated(t *testing.T) {
	orig := &Response{
		Status:  200,
		Headers: http.Header{"X-Test": {"a"}},
		Data:    []byte("payload"),
	}
	req := &Request{URL: "/other"}

	c := CloneResponse(orig, req)
	if c == orig {
		t.Fatal("clone aliases original")
	}
	if c.Request != req {
		t.Error("clone not tagged with target request")
	}

	c.Headers.Set("X-Test", "b")
	c.Data[0] = 'P'

	if got := orig.Headers.Get("X-Test"); got != "a" {
		t.Errorf("original header mutated: %q", got)
	}
	if string(orig.Data) != "payload" {
		t.Errorf("original data mutated: %q", orig.Data)
	}
}

func TestCloneResponse_Nil(t *testing.T) {
	if CloneResponse(nil, &Request{}) != nil {
		t.Error("expected nil clone for nil response")
	}
}

func TestRequest_Clone(t *testing.T) {
	r := &Request{
		Params:  url.Values{"q": {"go"}},
		Headers: http.Header{"Accept": {"json"}},
	}
	c := r.Clone()
	c.Params.Add("q", "rust")
	c.Headers.Set("Accept", "xml")

	if len(r.Params["q"]) != 1 {
		t.Errorf("original params mutated: %v", r.Params)
	}
	if r.Headers.Get("Accept") != "json" {
		t.Errorf("original headers mutated: %v", r.Headers)
	}
}

func TestRequest_LowerMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"", "get"},
		{"GET", "get"},
		{"Patch", "patch"},
	}
	for _, tt := range tests {
		r := &Request{Method: tt.method}
		if got := r.LowerMethod(); got != tt.want {
			t.Errorf("LowerMethod(%q) = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestRequest_FullURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		url  string
		want string
	}{
		{"no base", "", "/users", "/users"},
		{"joined", "https://api.example.com/", "/users", "https://api.example.com/users"},
		{"no slashes", "https://api.example.com", "users", "https://api.example.com/users"},
		{"absolute wins", "https://api.example.com", "http://other.example.com/x", "http://other.example.com/x"},
		{"protocol relative", "https://api.example.com", "//cdn.example.com/x", "//cdn.example.com/x"},
		{"empty url", "https://api.example.com", "", "https://api.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Request{BaseURL: tt.base, URL: tt.url}
			if got := r.FullURL(); got != tt.want {
				t.Errorf("FullURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCancel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrCanceled, true},
		{"wrapped sentinel", fmt.Errorf("boom: %w", ErrCanceled), true},
		{"context canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, false},
		{"error with canceled cause", &Error{Code: CodeCanceled, Err: ErrCanceled}, true},
		{"plain", errors.New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCancel(tt.err); got != tt.want {
				t.Errorf("IsCancel(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestError_StatusCode(t *testing.T) {
	resp := &Response{Status: 200}
	if got := (&Error{Response: resp}).StatusCode(); got != 200 {
		t.Errorf("StatusCode() = %d, want 200", got)
	}
	if got := (&Error{Response: resp, Status: 503}).StatusCode(); got != 503 {
		t.Errorf("StatusCode() with override = %d, want 503", got)
	}
	if got := (&Error{}).StatusCode(); got != 0 {
		t.Errorf("StatusCode() without response = %d, want 0", got)
	}
}

func TestNewStatusError(t *testing.T) {
	req := &Request{URL: "/x"}
	resp := &Response{Status: 200, Request: req}

	err := NewStatusError(resp, 503)
	if err.StatusCode() != 503 {
		t.Errorf("StatusCode() = %d, want 503", err.StatusCode())
	}
	if err.Code != CodeBadResponse {
		t.Errorf("Code = %q, want %q", err.Code, CodeBadResponse)
	}
	if err.Request != req {
		t.Error("error not tagged with response request")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("message %q does not mention status", err.Error())
	}
	if NewStatusError(resp, 404).Code != CodeBadRequest {
		t.Error("expected bad request code for 4xx")
	}
}

func TestRewrap(t *testing.T) {
	orig := &Request{URL: "/a"}
	other := &Request{URL: "/b"}
	resp := &Response{Status: 500, Headers: http.Header{"X": {"1"}}, Request: orig}
	base := &Error{Message: "failed", Code: CodeBadResponse, Request: orig, Response: resp}

	err := Rewrap(base, other)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e == base {
		t.Fatal("rewrap returned original error")
	}
	if e.Request != other || e.Response.Request != other {
		t.Error("rewrapped error not tagged with caller request")
	}
	if e.Response == resp {
		t.Error("rewrapped error shares response")
	}
	if e.Message != "failed" || e.Code != CodeBadResponse {
		t.Errorf("rewrap lost fields: %+v", e)
	}

	plain := errors.New("dial failed")
	err = Rewrap(plain, other)
	if !errors.Is(err, plain) {
		t.Error("rewrapped plain error lost its cause")
	}

	cancel := fmt.Errorf("stop: %w", ErrCanceled)
	if Rewrap(cancel, other) != cancel {
		t.Error("cancellation must pass through unchanged")
	}
}

func TestStatusOf(t *testing.T) {
	if _, ok := StatusOf(errors.New("x")); ok {
		t.Error("plain error should carry no status")
	}
	err := fmt.Errorf("wrapped: %w", &Error{Response: &Response{Status: 429}})
	status, ok := StatusOf(err)
	if !ok || status != 429 {
		t.Errorf("StatusOf() = %d, %v; want 429, true", status, ok)
	}
	if _, ok := ResponseOf(err); !ok {
		t.Error("ResponseOf() should find the response")
	}
}

type testOptions struct{ n int }
type otherOptions struct{ n int }

func TestOverride_Context(t *testing.T) {
	ctx := context.Background()
	if k := OverrideFrom[testOptions](ctx).Kind(); k != Unset {
		t.Errorf("empty context kind = %v, want unset", k)
	}

	ctx = WithOverride(ctx, With(testOptions{n: 3}))
	ctx = WithOverride(ctx, Force[otherOptions](true))

	o := OverrideFrom[testOptions](ctx)
	opts, ok := o.Options()
	if !ok || opts.n != 3 {
		t.Errorf("Options() = %+v, %v", opts, ok)
	}
	if o.Forced() {
		t.Error("detailed override must not be forced")
	}
	if !OverrideFrom[otherOptions](ctx).Forced() {
		t.Error("other override lost")
	}
	if Force[testOptions](false).Kind() != ForceDisabled {
		t.Error("Force(false) should be ForceDisabled")
	}
}

func TestChain_Order(t *testing.T) {
	var trace []string
	mk := func(name string) Engine {
		return EngineFunc(func(ctx context.Context, req *Request, next Transport) (*Response, error) {
			trace = append(trace, name)
			return next(ctx, req)
		})
	}
	raw := func(ctx context.Context, req *Request) (*Response, error) {
		trace = append(trace, "raw")
		return &Response{Status: 200}, nil
	}

	do := Chain(raw, mk("outer"), nil, mk("inner"))
	if _, err := do(context.Background(), &Request{}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(trace, ","); got != "outer,inner,raw" {
		t.Errorf("order = %s", got)
	}
}

func TestMethodAllowed(t *testing.T) {
	allowed := []string{"get", "HEAD"}
	if !MethodAllowed(&Request{Method: "GET"}, allowed) {
		t.Error("GET should be allowed")
	}
	if !MethodAllowed(&Request{Method: "head"}, allowed) {
		t.Error("head should be allowed")
	}
	if !MethodAllowed(&Request{}, allowed) {
		t.Error("empty method defaults to get")
	}
	if MethodAllowed(&Request{Method: "POST"}, allowed) {
		t.Error("POST should not be allowed")
	}
}

func TestContextError(t *testing.T) {
	req := &Request{URL: "/x"}

	canceled := ContextError(context.Canceled, req)
	if !IsCancel(canceled) {
		t.Fatalf("expected cancellation, got %v", canceled)
	}
	var e *Error
	if !errors.As(canceled, &e) || e.Code != CodeCanceled || e.Request != req {
		t.Fatalf("unexpected shape %#v", canceled)
	}

	timeout := ContextError(context.DeadlineExceeded, req)
	if IsCancel(timeout) {
		t.Fatal("deadline expiry must not be a cancellation")
	}
	if !errors.As(timeout, &e) || e.Code != CodeTimeout {
		t.Fatalf("unexpected shape %#v", timeout)
	}

	other := errors.New("other")
	if ContextError(other, req) != other {
		t.Fatal("unrelated errors must pass through")
	}
}

func TestSystemClock_SleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SystemClock().Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := SystemClock().Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
