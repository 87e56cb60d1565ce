package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shortify/shortify/internal/entity"
)

// DefaultTokenTTL bounds token compromise when no TTL is configured. Tokens
// are stateless: there is no revocation list, only the expiry window.
const DefaultTokenTTL = 24 * time.Hour

// TokenManager issues and validates HS256-signed bearer tokens carrying a
// user id subject and an absolute expiry. The signing key is injected at
// construction and never read from ambient state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a TokenManager from a non-empty secret. A zero ttl
// falls back to DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	const op = "auth.NewTokenManager"

	if secret == "" {
		return nil, fmt.Errorf("%s: secret must not be empty", op)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// TTL returns the lifetime applied to issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given user id and returns it with its expiry.
func (m *TokenManager) Issue(userID int64) (string, time.Time, error) {
	const op = "auth.TokenManager.Issue"

	exp := time.Now().UTC().Add(m.ttl)
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: failed to sign token: %w", op, err)
	}

	return signed, exp, nil
}

// Validate verifies signature and expiry and returns the embedded user id.
// Every failure mode collapses into entity.ErrInvalidCredential so callers
// cannot distinguish an expired token from a forged one.
func (m *TokenManager) Validate(token string) (int64, error) {
	const op = "auth.TokenManager.Validate"

	tok, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return 0, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
	}

	return userID, nil
}
