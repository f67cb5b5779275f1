package random

import (
	"crypto/rand"
	"encoding/hex"
)

// Random provides token generation that can be mocked for testing
type Random interface {
	// Token returns n random bytes, hex-encoded (2n characters)
	Token(n int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns n cryptographically random bytes as a hex string
func (r *CryptoRandom) Token(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
