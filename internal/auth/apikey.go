package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateAPIKey returns a random opaque API key: the hex-encoded SHA-256
// digest of 32 bytes of cryptographically secure random data.
func GenerateAPIKey() (string, error) {
	const op = "auth.GenerateAPIKey"

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}
