// Package domain defines the session entities used for login state.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/errors"
)

// Session errors.
var (
	// ErrSessionNotFound indicates the session token does not match any session.
	ErrSessionNotFound = errors.Wrap(errors.ErrUnauthorized, "session not found")

	// ErrSessionExpired indicates the session exists but its lifetime has elapsed.
	ErrSessionExpired = errors.Wrap(errors.ErrUnauthorized, "session expired")

	// ErrStateMismatch indicates the OAuth state returned by the identity
	// provider does not match the one issued at login.
	ErrStateMismatch = errors.Wrap(errors.ErrUnauthorized, "state mismatch")
)

// Session represents a logged-in browser or agent session. Only the SHA-256
// hash of the bearer token is stored; the plain token is shown once at login.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session lifetime has elapsed at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
