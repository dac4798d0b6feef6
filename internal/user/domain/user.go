// Package domain contains the user entities and their business rules.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/errors"
)

// Domain errors for user operations.
var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email or external ID exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrUnknownChannel indicates an unrecognized notification channel name.
	ErrUnknownChannel = errors.Wrap(errors.ErrInvalidInput, "unknown notification channel")
)

// User represents an account provisioned from the identity provider.
// ExternalID is the IdP subject claim; local user IDs are uuidv7 and therefore
// never contain characters that are ambiguous in downstream token payloads.
type User struct {
	ID         uuid.UUID
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Channel identifies a notification category a user can opt out of.
type Channel string

// Notification channels.
const (
	ChannelMarketing      Channel = "marketing"
	ChannelDigest         Channel = "digest"
	ChannelProductUpdates Channel = "product_updates"
)

// ParseChannel validates a channel name received from the outside.
func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelMarketing, ChannelDigest, ChannelProductUpdates:
		return Channel(s), nil
	default:
		return "", ErrUnknownChannel
	}
}

// NotificationPreferences holds a user's per-channel email opt-in flags.
// New users start with every channel enabled.
type NotificationPreferences struct {
	UserID         uuid.UUID
	Marketing      bool
	Digest         bool
	ProductUpdates bool
	UpdatedAt      time.Time
}

// DefaultPreferences returns the opt-in defaults for a newly provisioned user.
func DefaultPreferences(userID uuid.UUID) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:         userID,
		Marketing:      true,
		Digest:         true,
		ProductUpdates: true,
	}
}

// Disable turns off the given channel. Used by the one-click unsubscribe flow.
func (p *NotificationPreferences) Disable(ch Channel) error {
	switch ch {
	case ChannelMarketing:
		p.Marketing = false
	case ChannelDigest:
		p.Digest = false
	case ChannelProductUpdates:
		p.ProductUpdates = false
	default:
		return ErrUnknownChannel
	}
	return nil
}

// DisableAll turns off every channel.
func (p *NotificationPreferences) DisableAll() {
	p.Marketing = false
	p.Digest = false
	p.ProductUpdates = false
}
