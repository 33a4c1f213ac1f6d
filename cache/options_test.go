package cache

import (
	"testing"
	"time"

	"github.com/jonwraymond/reqslots/exchange"
)

// TestDefaultOptions verifies the documented defaults.
func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if !o.Enabled() {
		t.Error("expected enabled")
	}
	if o.EffectiveMaxAge() != 10*time.Minute {
		t.Errorf("expected 10m, got %v", o.EffectiveMaxAge())
	}
	if len(o.AllowedMethods) != 1 || o.AllowedMethods[0] != "get" {
		t.Errorf("unexpected methods %v", o.AllowedMethods)
	}
}

func TestOptions_Merge(t *testing.T) {
	global := Options{MaxAge: time.Minute, AllowedMethods: []string{"get", "head"}}

	tests := []struct {
		name        string
		ov          exchange.Override[Options]
		wantEnabled bool
		wantMaxAge  time.Duration
		wantMethods int
	}{
		{"unset", exchange.Override[Options]{}, true, time.Minute, 2},
		{"force disabled", exchange.Force[Options](false), false, time.Minute, 2},
		{"force enabled", exchange.Force[Options](true), true, time.Minute, 2},
		{"detailed max age", exchange.With(Options{MaxAge: time.Hour}), true, time.Hour, 2},
		{"detailed methods", exchange.With(Options{AllowedMethods: []string{"get"}}), true, time.Minute, 1},
		{"detailed disable", exchange.With(Options{Enable: exchange.Bool(false)}), false, time.Minute, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := global.Merge(tt.ov)
			if got.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", got.Enabled(), tt.wantEnabled)
			}
			if got.EffectiveMaxAge() != tt.wantMaxAge {
				t.Errorf("MaxAge = %v, want %v", got.EffectiveMaxAge(), tt.wantMaxAge)
			}
			if len(got.allowedMethods()) != tt.wantMethods {
				t.Errorf("methods = %v", got.allowedMethods())
			}
		})
	}
}

func TestOptions_ForceEnableOverridesGlobalDisable(t *testing.T) {
	o := Options{Enable: exchange.Bool(false)}.Merge(exchange.Force[Options](true))
	if !o.Enabled() {
		t.Fatal("expected enabled")
	}
}
