package config

import (
	"testing"
	"time"
)

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27018")
	t.Setenv("MONGODB_DATABASE", "epicescape_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "test-issuer")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("PAYMENT_TIMEOUT_SECONDS", "3")

	cfg := Load()
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.MongoURI != "mongodb://localhost:27018" {
		t.Fatalf("expected MONGODB_URI override, got %s", cfg.MongoURI)
	}
	if cfg.MongoDatabase != "epicescape_test" {
		t.Fatalf("expected MONGODB_DATABASE override, got %s", cfg.MongoDatabase)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.JWTIssuer != "test-issuer" {
		t.Fatalf("expected JWT_ISSUER override, got %s", cfg.JWTIssuer)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected ACCESS_TOKEN_TTL 30m, got %s", cfg.AccessTokenTTL)
	}
	if cfg.PaymentTimeout != 3*time.Second {
		t.Fatalf("expected PAYMENT_TIMEOUT 3s, got %s", cfg.PaymentTimeout)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("ACCESS_TOKEN_TTL_SECONDS", "")
	t.Setenv("MONGODB_DATABASE", "")

	cfg := Load()
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("expected default token TTL of 1h, got %s", cfg.AccessTokenTTL)
	}
	if cfg.MongoDatabase == "" {
		t.Fatalf("expected default database name")
	}
}
