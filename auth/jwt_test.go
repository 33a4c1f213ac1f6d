package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func parseHS256(t *testing.T, token string, secret []byte) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	return claims
}

func TestNewJWTSource_RequiresSecret(t *testing.T) {
	if _, err := NewJWTSource(JWTConfig{}); !errors.Is(err, ErrMissingSigningKey) {
		t.Fatalf("expected ErrMissingSigningKey, got %v", err)
	}
}

// TestJWTSource_Claims verifies configured claims end up in the token.
func TestJWTSource_Claims(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	secret := []byte("secret")
	src, err := NewJWTSource(JWTConfig{
		Secret:   secret,
		Issuer:   "reqslots",
		Audience: "api",
		Subject:  "svc-a",
		KeyID:    "k1",
		TTL:      time.Minute,
		Claims:   map[string]any{"scope": "read"},
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewJWTSource: %v", err)
	}

	token, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	claims := parseHS256(t, token, secret)

	want := map[string]any{
		"iss":   "reqslots",
		"aud":   "api",
		"sub":   "svc-a",
		"scope": "read",
		"iat":   float64(now.Unix()),
		"exp":   float64(now.Add(time.Minute).Unix()),
	}
	for k, v := range want {
		if claims[k] != v {
			t.Errorf("claim %s = %v, want %v", k, claims[k], v)
		}
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if parsed.Header["kid"] != "k1" {
		t.Errorf("kid = %v, want k1", parsed.Header["kid"])
	}
}

func TestJWTSource_ReusesUntilRefreshWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	src, err := NewJWTSource(JWTConfig{
		Secret:        []byte("secret"),
		TTL:           time.Minute,
		RefreshBefore: 10 * time.Second,
		Now:           func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewJWTSource: %v", err)
	}
	ctx := context.Background()

	first, _ := src.Token(ctx)
	now = now.Add(49 * time.Second)
	second, _ := src.Token(ctx)
	if first != second {
		t.Error("token should be reused inside its lifetime")
	}

	now = now.Add(2 * time.Second)
	third, _ := src.Token(ctx)
	if third == second {
		t.Error("token should be re-minted inside the refresh window")
	}
}
