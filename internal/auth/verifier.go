// Package auth verifies the bearer credentials presented with catalog
// write requests. Token issuance lives outside this service; only the
// shared signing secret is configured here.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for malformed, expired or badly
	// signed credentials. Callers treat every verification failure
	// the same way, so the reason is not surfaced.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity describes the authenticated caller.
type Identity struct {
	Subject string
}

// TokenVerifier validates a bearer credential and returns the caller's
// identity. Implementations must be safe for concurrent use.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// JWTVerifier verifies HS256-signed JWTs against a shared secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given signing secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token. The signing method is pinned
// to HMAC so a token signed with "none" or an RSA public key is rejected.
func (v *JWTVerifier) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{Subject: subject}, nil
}

// MintToken issues a short-lived HS256 token for the given subject.
// Used by tests and operational tooling; the production issuer is a
// separate system sharing the same secret.
func (v *JWTVerifier) MintToken(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(v.secret)
}

var _ TokenVerifier = (*JWTVerifier)(nil)
