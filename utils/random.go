package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomToken returns a hex-encoded token built from n random bytes.
// Used for invitation tokens and email verification; treat the result as a
// secret, it is only ever matched exactly.
func GenerateRandomToken(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
