// Package http provides HTTP middleware and handlers for session authentication.
package http

import (
	"context"

	authDomain "github.com/skillboard/skillboard/internal/auth/domain"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
)

// userKey is a context key type for storing authenticated users.
type userKey struct{}

// sessionKey is a context key type for storing the active session.
type sessionKey struct{}

// WithUser stores an authenticated user in the context.
// This is typically called by the session middleware after successful validation.
func WithUser(ctx context.Context, user *userDomain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser retrieves the authenticated user from the context.
// Returns (user, true) if a user is present, or (nil, false) if no user was set.
func GetUser(ctx context.Context) (*userDomain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*userDomain.User)
	return user, ok
}

// WithSession stores the active session in the context so handlers like logout
// can revoke it without re-parsing the Authorization header.
func WithSession(ctx context.Context, session *authDomain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSession retrieves the active session from the context.
func GetSession(ctx context.Context) (*authDomain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*authDomain.Session)
	return session, ok
}
