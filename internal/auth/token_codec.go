package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/henningcullin/service-system/internal/apperrors"
)

// PreAuthExpiry is the fixed lifetime of a pre-auth token. A one-time code
// is only usable within this window and cannot be revoked earlier.
const PreAuthExpiry = 5 * time.Minute

// SessionClaims identifies a logged-in user. Subject is the user id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// PreAuthClaims bridges the two steps of OTP login. Subject is the email the
// code was issued for; Hash is the Argon2id hash of the code itself, so no
// server-side code table is needed.
type PreAuthClaims struct {
	Hash string `json:"hash"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the two token classes under two disjoint
// secrets. A token minted in one namespace never verifies in the other.
type TokenCodec struct {
	sessionSecret []byte
	preAuthSecret []byte
	sessionTTL    time.Duration
}

// NewTokenCodec creates a codec from the two signing secrets and the session
// lifetime.
func NewTokenCodec(sessionSecret, preAuthSecret string, sessionTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		sessionSecret: []byte(sessionSecret),
		preAuthSecret: []byte(preAuthSecret),
		sessionTTL:    sessionTTL,
	}
}

// SessionTTL returns the configured session token lifetime.
func (c *TokenCodec) SessionTTL() time.Duration {
	return c.sessionTTL
}

// IssueSession mints a signed session token for the given user.
func (c *TokenCodec) IssueSession(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession decodes and verifies a session token. Any failure (bad
// signature, malformed payload, expired) collapses to ErrInvalidToken.
func (c *TokenCodec) VerifySession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := c.verify(tokenString, claims, c.sessionSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// IssuePreAuth mints a signed pre-auth token carrying the hash of a
// one-time code, valid for PreAuthExpiry.
func (c *TokenCodec) IssuePreAuth(email, codeHash string) (string, error) {
	now := time.Now()
	claims := &PreAuthClaims{
		Hash: codeHash,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(PreAuthExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.preAuthSecret)
	if err != nil {
		return "", fmt.Errorf("sign pre-auth token: %w", err)
	}
	return signed, nil
}

// VerifyPreAuth decodes and verifies a pre-auth token.
func (c *TokenCodec) VerifyPreAuth(tokenString string) (*PreAuthClaims, error) {
	claims := &PreAuthClaims{}
	if err := c.verify(tokenString, claims, c.preAuthSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return apperrors.ErrInvalidToken
	}
	return nil
}
