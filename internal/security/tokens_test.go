package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAndVerify(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	token, expiresAt, err := p.Issue("u1", "member", "c1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	claims, err := p.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "member" || claims.TenantID != "c1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.IsZero() || claims.IssuedAt.IsZero() {
		t.Error("claims should carry iat and exp")
	}
}

func TestTokenProvider_VerifyMalformed(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := p.Verify(bad); err != ErrInvalidToken {
			t.Errorf("Verify(%q): want ErrInvalidToken, got %v", bad, err)
		}
	}
}

func TestTokenProvider_VerifyExpired(t *testing.T) {
	p, err := NewTestTokenProviderTTL(-1 * time.Minute)
	if err != nil {
		t.Fatalf("NewTestTokenProviderTTL: %v", err)
	}
	token, _, err := p.Issue("u1", "client", "u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p.Verify(token); err != ErrExpiredToken {
		t.Errorf("want ErrExpiredToken, got %v", err)
	}
}

func TestTokenProvider_VerifyWrongIssuer(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	other := NewTokenProvider(signer, pub, "other-issuer", "test-audience", time.Minute)
	token, _, err := other.Issue("u1", "client", "u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := p.Verify(token); err != ErrInvalidToken {
		t.Errorf("wrong issuer: want ErrInvalidToken, got %v", err)
	}
}
