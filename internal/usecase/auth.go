package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/entity"
)

type userRepository interface {
	Save(ctx context.Context, user *entity.User) (*entity.User, error)
	RetrieveByID(ctx context.Context, id int64) (*entity.User, error)
	RetrieveByUsername(ctx context.Context, username string) (*entity.User, error)
	RetrieveByAPIKey(ctx context.Context, apiKey string) (*entity.User, error)
	SetTOTPSecret(ctx context.Context, id int64, secret string) error
	SetAPIKey(ctx context.Context, id int64, apiKey string) error
	List(ctx context.Context, params entity.ListParams) (*entity.UserPage, error)
	Delete(ctx context.Context, id int64) error
}

// AuthUseCase implements credential verification, principal resolution and
// the admin session rules.
type AuthUseCase struct {
	users  userRepository
	tokens *auth.TokenManager
}

func NewAuthUseCase(users userRepository, tokens *auth.TokenManager) *AuthUseCase {
	return &AuthUseCase{
		users:  users,
		tokens: tokens,
	}
}

// Authenticate verifies a username/password pair and returns the user.
// A missing user and a wrong password are indistinguishable to the caller.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	const op = "usecase.AuthUseCase.Authenticate"

	user, err := uc.users.RetrieveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
		}

		return nil, fmt.Errorf("%s: failed to look up user: %w", op, err)
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
	}

	return user, nil
}

// IssueToken signs a bearer token for the user.
func (uc *AuthUseCase) IssueToken(user *entity.User) (string, time.Time, error) {
	const op = "usecase.AuthUseCase.IssueToken"

	token, exp, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: failed to issue token: %w", op, err)
	}

	return token, exp, nil
}

// ResolvePrincipal turns request credentials into a user. The API key scheme
// always wins when both credentials are present, even when the key is wrong.
// The "active" flag is deliberately not checked here; the authorization gate
// is the single place that enforces it.
func (uc *AuthUseCase) ResolvePrincipal(ctx context.Context, apiKey, bearer string) (*entity.User, error) {
	const op = "usecase.AuthUseCase.ResolvePrincipal"

	switch {
	case apiKey != "":
		user, err := uc.users.RetrieveByAPIKey(ctx, apiKey)
		if err != nil {
			if errors.Is(err, entity.ErrUserNotFound) {
				return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidAPIKey)
			}

			return nil, fmt.Errorf("%s: failed to look up api key: %w", op, err)
		}

		return user, nil

	case bearer != "":
		userID, err := uc.tokens.Validate(bearer)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
		}

		user, err := uc.users.RetrieveByID(ctx, userID)
		if err != nil {
			if errors.Is(err, entity.ErrUserNotFound) {
				return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
			}

			return nil, fmt.Errorf("%s: failed to look up user: %w", op, err)
		}

		return user, nil

	default:
		return nil, fmt.Errorf("%s: %w", op, entity.ErrNotAuthenticated)
	}
}

// ResolveAdminSession validates a session cookie token and requires the
// resolved user to be an active superuser. Every failure collapses into
// entity.ErrNotAuthenticated: the admin surface answers all of them with a
// redirect to the login page.
func (uc *AuthUseCase) ResolveAdminSession(ctx context.Context, cookieToken string) (*entity.User, error) {
	const op = "usecase.AuthUseCase.ResolveAdminSession"

	if cookieToken == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrNotAuthenticated)
	}

	userID, err := uc.tokens.Validate(cookieToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrNotAuthenticated)
	}

	user, err := uc.users.RetrieveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrNotAuthenticated)
		}

		return nil, fmt.Errorf("%s: failed to look up user: %w", op, err)
	}

	if !user.IsActive || !user.IsSuperuser {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrNotAuthenticated)
	}

	return user, nil
}

// AdminLogin authenticates an administrative login. Only active superusers
// may enter. Once a user has a TOTP secret, a valid one-time code is
// mandatory: a missing code yields entity.ErrTOTPRequired so the login page
// can prompt for it, a wrong one yields entity.ErrInvalidCredential.
func (uc *AuthUseCase) AdminLogin(ctx context.Context, username, password, totpCode string) (*entity.User, error) {
	const op = "usecase.AuthUseCase.AdminLogin"

	user, err := uc.Authenticate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive || !user.IsSuperuser {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
	}

	if user.TOTPEnrolled() {
		if totpCode == "" {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrTOTPRequired)
		}
		if !auth.VerifyTOTP(*user.TOTPSecret, totpCode) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
		}
	}

	return user, nil
}

// BeginTOTPEnrollment generates a candidate secret and provisioning URI for
// a user without a second factor. Nothing is persisted until the user proves
// possession of the secret through CompleteTOTPEnrollment.
func (uc *AuthUseCase) BeginTOTPEnrollment(user *entity.User) (secret, provisioningURI string, err error) {
	const op = "usecase.AuthUseCase.BeginTOTPEnrollment"

	secret, provisioningURI, err = auth.GenerateTOTP(user.Email)
	if err != nil {
		return "", "", fmt.Errorf("%s: failed to generate totp secret: %w", op, err)
	}

	return secret, provisioningURI, nil
}

// CompleteTOTPEnrollment persists a TOTP secret after verifying one live
// code against it.
func (uc *AuthUseCase) CompleteTOTPEnrollment(ctx context.Context, user *entity.User, secret, code string) error {
	const op = "usecase.AuthUseCase.CompleteTOTPEnrollment"

	if !auth.VerifyTOTP(secret, code) {
		return fmt.Errorf("%s: %w", op, entity.ErrInvalidCredential)
	}

	if err := uc.users.SetTOTPSecret(ctx, user.ID, secret); err != nil {
		return fmt.Errorf("%s: failed to persist totp secret: %w", op, err)
	}

	return nil
}

// EnsureSuperuser creates the bootstrap superuser when no user with the
// given username exists yet. Called once at startup.
func (uc *AuthUseCase) EnsureSuperuser(ctx context.Context, username, email, password string) error {
	const op = "usecase.AuthUseCase.EnsureSuperuser"

	if username == "" {
		return nil
	}

	_, err := uc.users.RetrieveByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return fmt.Errorf("%s: failed to look up user: %w", op, err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	apiKey, err := auth.GenerateAPIKey()
	if err != nil {
		return fmt.Errorf("%s: failed to generate api key: %w", op, err)
	}

	_, err = uc.users.Save(ctx, &entity.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		APIKey:         &apiKey,
		IsActive:       true,
		IsSuperuser:    true,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create superuser: %w", op, err)
	}

	return nil
}
