package security

import (
	"errors"
	"testing"
	"time"

	"github.com/slicehaven/storefront-backend/pkg/config"
)

func newTestIssuer(t *testing.T, ttlMinutes int) *NonceIssuer {
	t.Helper()
	issuer, err := NewNonceIssuer(config.NonceConfig{
		Secret:     "test-secret",
		Issuer:     "slicehaven-storefront",
		TTLMinutes: ttlMinutes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return issuer
}

func TestNonceRoundTrip(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, 10)

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := issuer.Verify(nonce, "sess-1"); err != nil {
		t.Fatalf("expected valid nonce, got %v", err)
	}
}

func TestNonceSessionBinding(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, 10)

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := issuer.Verify(nonce, "sess-2"); !errors.Is(err, ErrInvalidNonce) {
		t.Fatalf("nonce must be bound to its session, got %v", err)
	}
}

func TestNonceTampered(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, 10)

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := issuer.Verify(nonce+"x", "sess-1"); !errors.Is(err, ErrInvalidNonce) {
		t.Fatalf("tampered nonce must fail, got %v", err)
	}
	if err := issuer.Verify("", "sess-1"); !errors.Is(err, ErrInvalidNonce) {
		t.Fatalf("empty nonce must fail, got %v", err)
	}
}

func TestNonceWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, 10)
	other, err := NewNonceIssuer(config.NonceConfig{
		Secret:     "other-secret",
		Issuer:     "slicehaven-storefront",
		TTLMinutes: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nonce, err := other.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := issuer.Verify(nonce, "sess-1"); !errors.Is(err, ErrInvalidNonce) {
		t.Fatalf("foreign signature must fail, got %v", err)
	}
}

func TestNonceExpired(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, 10)
	issuer.ttl = -time.Minute

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := issuer.Verify(nonce, "sess-1"); !errors.Is(err, ErrInvalidNonce) {
		t.Fatalf("expired nonce must fail, got %v", err)
	}
}

func TestNonceIssuerConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewNonceIssuer(config.NonceConfig{Secret: "", TTLMinutes: 10}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewNonceIssuer(config.NonceConfig{Secret: "s", TTLMinutes: 0}); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
