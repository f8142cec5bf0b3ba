package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/slicehaven/storefront-backend/pkg/config"
)

// ErrInvalidNonce signals a missing, expired, or mismatched anti-forgery token.
var ErrInvalidNonce = errors.New("invalid nonce")

// NonceIssuer mints and verifies the anti-forgery token handed to the menu
// client alongside the mount payload. The token is an HS256 JWT bound to one
// storefront session id.
type NonceIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewNonceIssuer builds an issuer from configuration.
func NewNonceIssuer(cfg config.NonceConfig) (*NonceIssuer, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("nonce secret is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("nonce ttl must be positive")
	}
	return &NonceIssuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

// Issue creates a nonce bound to the provided session id.
func (n *NonceIssuer) Issue(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    n.issuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(n.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(n.secret)
	if err != nil {
		return "", fmt.Errorf("signing nonce: %w", err)
	}
	return signed, nil
}

// Verify checks the nonce signature, expiry, issuer, and session binding.
func (n *NonceIssuer) Verify(raw, sessionID string) error {
	if strings.TrimSpace(raw) == "" || strings.TrimSpace(sessionID) == "" {
		return ErrInvalidNonce
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return n.secret, nil
	}, jwt.WithIssuer(n.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ErrInvalidNonce
	}
	if claims.Subject != sessionID {
		return ErrInvalidNonce
	}
	return nil
}
