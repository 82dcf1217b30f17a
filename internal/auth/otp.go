package auth

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// GenerateCode produces a short human-enterable one-time code: three
// cryptographically random bytes rendered as six uppercase hex characters.
func GenerateCode() (string, error) {
	var buf [3]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	var b strings.Builder
	for _, v := range buf {
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String(), nil
}
