// Package entity defines the entities and errors used in the application.
// It includes the ShortURL and User structs along with the error taxonomy
// shared between the business and delivery layers.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrIdentExists is returned when attempting to create a short URL with an identifier that already exists.
	ErrIdentExists = errors.New("identifier exists")
	// ErrExternalIDExists is returned when attempting to create or update a short URL with an external id that already exists.
	ErrExternalIDExists = errors.New("external id exists")
	// ErrURLNotFound is returned when no live short URL matches the given identifier or external id.
	ErrURLNotFound = errors.New("short url not found")
)

// ShortURL represents a shortened URL.
type ShortURL struct {
	ID          int64      // ID is the unique identifier of the record in the database.
	Ident       string     // Ident is the generated identifier the short link resolves through.
	ExternalID  *string    // ExternalID is an optional caller-supplied unique alias.
	Origin      string     // Origin is the full URL that the identifier resolves to.
	Views       int64      // Views is the number of successful resolutions.
	CreatedAt   time.Time  // CreatedAt is the timestamp when the record was created.
	UpdatedAt   *time.Time // UpdatedAt is the timestamp of the last mutation, nil until the first update.
	ExpiresAt   *time.Time // ExpiresAt marks the record dead for resolution once passed.
	LastVisitAt *time.Time // LastVisitAt is the timestamp of the last successful resolution.
	UserID      *int64     // UserID references the user that created the link, if any.
}

// Expired reports whether the short URL is past its expiry timestamp.
func (u *ShortURL) Expired(now time.Time) bool {
	return u.ExpiresAt != nil && !u.ExpiresAt.After(now)
}

// ShortURLUpdate describes a partial update of a short URL. Nil fields are
// left unchanged. An empty ExternalID clears the alias; ClearExpiry removes
// the expiry timestamp.
type ShortURLUpdate struct {
	Origin      *string
	ExternalID  *string
	ExpiresAt   *time.Time
	ClearExpiry bool
}

// Empty reports whether the update would change nothing.
func (u ShortURLUpdate) Empty() bool {
	return u.Origin == nil && u.ExternalID == nil && u.ExpiresAt == nil && !u.ClearExpiry
}
