// Package domain contains the notification domain model: unsubscribe
// channels and the claims carried by signed unsubscribe tokens.
package domain

import (
	"time"

	apperrors "github.com/skillboard/skillboard/internal/errors"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
)

// UnsubscribeType selects which notification channel an unsubscribe
// request turns off. TypeAll disables every channel at once.
type UnsubscribeType string

const (
	TypeMarketing      UnsubscribeType = "marketing"
	TypeDigest         UnsubscribeType = "digest"
	TypeProductUpdates UnsubscribeType = "product_updates"
	TypeAll            UnsubscribeType = "all"
)

var (
	// ErrInvalidToken covers every verification failure: malformed input,
	// bad signature, and expired tokens all collapse into this single error
	// so callers cannot distinguish why a token was rejected.
	ErrInvalidToken = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid or expired unsubscribe token")

	// ErrInvalidType indicates an unknown unsubscribe type value.
	ErrInvalidType = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid unsubscribe type")
)

// ParseUnsubscribeType validates a raw type string from a request body.
func ParseUnsubscribeType(s string) (UnsubscribeType, error) {
	switch UnsubscribeType(s) {
	case TypeMarketing, TypeDigest, TypeProductUpdates, TypeAll:
		return UnsubscribeType(s), nil
	default:
		return "", ErrInvalidType
	}
}

// Channel maps an unsubscribe type to the preference channel it disables.
// TypeAll has no single channel and returns false.
func (t UnsubscribeType) Channel() (userDomain.Channel, bool) {
	switch t {
	case TypeMarketing:
		return userDomain.ChannelMarketing, true
	case TypeDigest:
		return userDomain.ChannelDigest, true
	case TypeProductUpdates:
		return userDomain.ChannelProductUpdates, true
	default:
		return "", false
	}
}

// TokenClaims is the identity recovered from a verified unsubscribe token.
type TokenClaims struct {
	UserID   string
	IssuedAt time.Time
}
