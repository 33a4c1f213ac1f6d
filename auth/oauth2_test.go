package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T, expiresIn int64) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		id, secret, ok := r.BasicAuth()
		if !ok {
			id, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
		}
		if id != "client" || secret != "s3cret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + string(rune('0'+n)),
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestNewClientCredentialsSource_RequiresEndpoint(t *testing.T) {
	if _, err := NewClientCredentialsSource(ClientCredentialsConfig{ClientID: "x"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestNewClientCredentialsSource_UnknownAuthMethod(t *testing.T) {
	_, err := NewClientCredentialsSource(ClientCredentialsConfig{
		TokenURL:         "https://idp.example.com/token",
		ClientID:         "client",
		ClientAuthMethod: "private_key_jwt",
	})
	if err == nil {
		t.Fatal("expected error for unsupported auth method")
	}
}

// TestClientCredentialsSource_AuthMethods verifies both client auth methods.
func TestClientCredentialsSource_AuthMethods(t *testing.T) {
	for _, method := range []string{"client_secret_basic", "client_secret_post"} {
		t.Run(method, func(t *testing.T) {
			srv, _ := tokenServer(t, 3600)
			src, err := NewClientCredentialsSource(ClientCredentialsConfig{
				TokenURL:         srv.URL,
				ClientID:         "client",
				ClientSecret:     "s3cret",
				ClientAuthMethod: method,
				Scopes:           []string{"read", "write"},
			})
			if err != nil {
				t.Fatalf("NewClientCredentialsSource: %v", err)
			}
			token, err := src.Token(context.Background())
			if err != nil {
				t.Fatalf("Token: %v", err)
			}
			if token != "tok-1" {
				t.Errorf("token = %q, want tok-1", token)
			}
		})
	}
}

func TestClientCredentialsSource_Caches(t *testing.T) {
	srv, hits := tokenServer(t, 60)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	src, err := NewClientCredentialsSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "client",
		ClientSecret: "s3cret",
		Now:          clock,
	})
	if err != nil {
		t.Fatalf("NewClientCredentialsSource: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := src.Token(ctx); err != nil {
			t.Fatalf("Token: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("token requests = %d, want 1", hits.Load())
	}

	mu.Lock()
	now = now.Add(45 * time.Second)
	mu.Unlock()
	token, err := src.Token(ctx)
	if err != nil {
		t.Fatalf("Token after refresh window: %v", err)
	}
	if token != "tok-2" || hits.Load() != 2 {
		t.Errorf("token = %q after %d requests, want tok-2 after 2", token, hits.Load())
	}
}

func TestClientCredentialsSource_Rejected(t *testing.T) {
	srv, _ := tokenServer(t, 60)
	src, _ := NewClientCredentialsSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "client",
		ClientSecret: "wrong",
	})
	_, err := src.Token(context.Background())
	if !errors.Is(err, ErrTokenFetchFailed) {
		t.Fatalf("expected ErrTokenFetchFailed, got %v", err)
	}
	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) || rerr.Response.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected a 401 RetrieveError, got %v", err)
	}
}
