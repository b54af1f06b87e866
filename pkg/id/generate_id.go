package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 mints a public identifier for wallets, circles and participants:
// 16 random bytes as 32 lowercase hex characters, no separators.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Valid reports whether s has the NewID32 shape. Uppercase hex is rejected
// on purpose; identifiers are stored and compared lowercase.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
