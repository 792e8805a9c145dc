package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.IsProduction() {
		t.Fatalf("expected development by default")
	}
	if cfg.TokenTTL() != 7*24*time.Hour {
		t.Fatalf("unexpected default ttl: %s", cfg.TokenTTL())
	}
	if cfg.Login.MaxAttempts != 5 || cfg.Login.Window != 15*time.Minute {
		t.Fatalf("unexpected login defaults: %+v", cfg.Login)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.TrustProxy {
		t.Fatalf("expected forwarded headers untrusted by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"JWT_EXPIRES_IN":     "3600",
		"ENV":                "Production",
		"CORS_ALLOW_ORIGINS": "https://a.example, https://b.example,",
		"REDIS_ADDR":         "redis:6379",
		"TRUST_PROXY":        "true",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
	if cfg.TokenTTL() != time.Hour {
		t.Fatalf("unexpected ttl: %s", cfg.TokenTTL())
	}
	if !cfg.TrustProxy {
		t.Fatalf("expected TRUST_PROXY to be honoured")
	}
	origins := cfg.AllowOrigins()
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatalf("expected error for missing secret")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET in error, got %v", err)
	}
}

func TestLoadFrom_NonPositiveExpiry(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"JWT_EXPIRES_IN": "0",
	}))
	if err == nil {
		t.Fatalf("expected error for zero expiry")
	}
}
