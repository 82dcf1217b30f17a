package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("correct horse battery staple")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	assert.True(t, VerifySecret("correct horse battery staple", hash))
	assert.False(t, VerifySecret("correct horse battery stapler", hash))
	assert.False(t, VerifySecret("", hash))
}

func TestHashSecretSaltsDiffer(t *testing.T) {
	first, err := HashSecret("secret")
	assert.NoError(t, err)
	second, err := HashSecret("secret")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifySecret("secret", first))
	assert.True(t, VerifySecret("secret", second))
}

func TestVerifySecretMalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "plain text", encoded: "not-a-hash"},
		{name: "wrong algorithm", encoded: "$bcrypt$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{name: "wrong version", encoded: "$argon2id$v=16$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{name: "bad salt encoding", encoded: "$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA"},
		{name: "missing segments", encoded: "$argon2id$v=19$m=65536,t=3,p=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifySecret("secret", tt.encoded))
		})
	}
}

func TestGenerateCodeFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		code, err := GenerateCode()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.Contains(t, "0123456789ABCDEF", string(c))
		}
		seen[code] = true
	}
	// 32 draws from a 16.7M space collide with negligible probability.
	assert.Greater(t, len(seen), 1)
}
