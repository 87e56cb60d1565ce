package entity

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when no user matches the given id, username or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user exists")
)

// User represents an authenticated identity with capability flags.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string  // never leaves the credential verifier
	APIKey         *string // optional standalone credential, unique when present
	IsActive       bool
	IsSuperuser    bool
	TOTPSecret     *string // nil until second-factor enrollment completes
	CreatedAt      time.Time
}

// TOTPEnrolled reports whether the user has completed second-factor enrollment.
func (u *User) TOTPEnrolled() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}
