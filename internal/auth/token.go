// Package auth issues and verifies session tokens and password hashes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// MinSigningKeyLength is the minimum HMAC key length in bytes (256 bits).
	MinSigningKeyLength = 32

	// MinLifetime is the shortest token lifetime. exp and iat are whole
	// seconds, so anything shorter could expire at issuance.
	MinLifetime = time.Second
)

var (
	// ErrInvalidToken is returned for every verification failure. Malformed,
	// tampered and expired tokens are deliberately indistinguishable.
	ErrInvalidToken = errors.New("invalid token")

	ErrWeakSigningKey  = fmt.Errorf("signing key must be at least %d bytes", MinSigningKeyLength)
	ErrInvalidLifetime = fmt.Errorf("token lifetime must be at least %s", MinLifetime)
)

// TokenCodec issues and verifies HS256 signed tokens. It is immutable after
// construction and safe for concurrent use.
type TokenCodec struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

type TokenCodecOption func(*TokenCodec)

// WithClock overrides the wall clock used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func NewTokenCodec(key []byte, lifetime time.Duration, opts ...TokenCodecOption) (*TokenCodec, error) {
	if len(key) < MinSigningKeyLength {
		return nil, ErrWeakSigningKey
	}
	if lifetime < MinLifetime {
		return nil, ErrInvalidLifetime
	}

	c := &TokenCodec{
		key:      append([]byte(nil), key...),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token whose subject is the given user id.
func (c *TokenCodec) Issue(subject string) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
	})

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its subject.
// Any failure yields ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) {
			return c.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
