package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Minute, "a@x.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", "issuer", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims email: %s", claims.Email)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected iat and exp claims")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Minute {
		t.Fatalf("expected exp-iat of 1m, got %s", got)
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", -time.Minute, "a@x.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "issuer", token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestWrongSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Minute, "a@x.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other-secret", "issuer", token); err == nil {
		t.Fatalf("expected tampered token to fail")
	}
}

func TestWrongIssuer(t *testing.T) {
	token, err := NewAccessToken("secret", "other-issuer", time.Minute, "a@x.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "issuer", token); err == nil {
		t.Fatalf("expected wrong issuer to fail")
	}
}

func TestMalformedToken(t *testing.T) {
	if _, err := ParseToken("secret", "issuer", "not-a-token"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}
