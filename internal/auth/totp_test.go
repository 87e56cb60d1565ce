package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTOTP(t *testing.T) {
	secret, uri, err := GenerateTOTP("admin@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/"))
	assert.Contains(t, uri, "admin@example.com")
}

func TestVerifyTOTP(t *testing.T) {
	secret, _, err := GenerateTOTP("admin@example.com")
	require.NoError(t, err)

	t.Run("live code", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, time.Now().UTC())
		require.NoError(t, err)

		assert.True(t, VerifyTOTP(secret, code))
	})

	t.Run("stale code", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, time.Now().UTC().Add(-5*time.Minute))
		require.NoError(t, err)

		assert.False(t, VerifyTOTP(secret, code))
	})

	t.Run("malformed code", func(t *testing.T) {
		assert.False(t, VerifyTOTP(secret, "abcdef"))
	})
}
