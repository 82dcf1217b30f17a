package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/henningcullin/service-system/internal/apperrors"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("session-secret", "pre-auth-secret", time.Hour)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()
	userID := uuid.New()

	token, err := codec.IssueSession(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := codec.VerifySession(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestPreAuthTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.IssuePreAuth("worker@example.com", "$argon2id$hash")
	assert.NoError(t, err)

	claims, err := codec.VerifyPreAuth(token)
	assert.NoError(t, err)
	assert.Equal(t, "worker@example.com", claims.Subject)
	assert.Equal(t, "$argon2id$hash", claims.Hash)
}

func TestTokenNamespacesAreDisjoint(t *testing.T) {
	codec := newTestCodec()

	session, err := codec.IssueSession(uuid.New())
	assert.NoError(t, err)
	preAuth, err := codec.IssuePreAuth("worker@example.com", "hash")
	assert.NoError(t, err)

	_, err = codec.VerifyPreAuth(session)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = codec.VerifySession(preAuth)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifySessionGarbage(t *testing.T) {
	codec := newTestCodec()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "hello"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.VerifySession(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestVerifySessionRejectsWrongSigningMethod(t *testing.T) {
	codec := newTestCodec()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = codec.VerifySession(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifySessionExpiry(t *testing.T) {
	secret := []byte("session-secret")
	codec := newTestCodec()

	sign := func(expiresAt time.Time) string {
		claims := &SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.New().String(),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		assert.NoError(t, err)
		return signed
	}

	_, err := codec.VerifySession(sign(time.Now().Add(-time.Second)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = codec.VerifySession(sign(time.Now().Add(time.Minute)))
	assert.NoError(t, err)
}
