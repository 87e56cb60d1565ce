// Package auth implements the credential primitives: password hashing,
// API key generation, TOTP second factor and signed bearer tokens.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of a plain password.
func HashPassword(plain string) (string, error) {
	const op = "auth.HashPassword"

	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(b), nil
}

// VerifyPassword compares a bcrypt hash against a plain password.
// The comparison is constant-time with respect to the hash.
func VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
