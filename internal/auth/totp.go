package auth

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPIssuer is the issuer name shown by authenticator apps.
const TOTPIssuer = "Shortify Admin"

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1, // tolerate one step of clock drift either way
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateTOTP creates a fresh TOTP secret for the given account and returns
// the secret together with its otpauth:// provisioning URI.
func GenerateTOTP(account string) (secret, provisioningURI string, err error) {
	const op = "auth.GenerateTOTP"

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: account,
	})
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	return key.Secret(), key.URL(), nil
}

// VerifyTOTP reports whether a one-time code is valid for the secret within
// the configured clock-skew tolerance.
func VerifyTOTP(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totpOpts)
	return err == nil && ok
}
