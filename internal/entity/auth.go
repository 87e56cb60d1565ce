package entity

import "errors"

// Authentication and authorization failures. The delivery layer translates
// these into denial responses; they never carry credential detail.
var (
	// ErrNotAuthenticated is returned when a request supplies no credential at all.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredential covers wrong passwords, TOTP codes and malformed,
	// mis-signed or expired tokens. Deliberately coarse: callers cannot tell
	// an expired token from a forged one.
	ErrInvalidCredential = errors.New("invalid credentials")
	// ErrInvalidAPIKey is returned when a supplied API key matches no user.
	// Distinct from ErrNotAuthenticated: the caller already chose the scheme.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrInactiveUser is returned when a resolved user is deactivated.
	ErrInactiveUser = errors.New("inactive user")
	// ErrForbidden is returned when an authenticated user lacks a required capability.
	ErrForbidden = errors.New("not enough privileges")
	// ErrTOTPRequired is returned when a login needs a one-time code that was not supplied.
	ErrTOTPRequired = errors.New("totp code required")
	// ErrRateLimited is returned when the login attempt budget is exceeded.
	ErrRateLimited = errors.New("rate limited")
)
