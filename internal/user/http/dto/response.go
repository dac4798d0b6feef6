package dto

import "time"

// UserResponse is the public representation of a user profile.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PreferencesResponse is the public representation of notification preferences.
type PreferencesResponse struct {
	Marketing      bool      `json:"marketing"`
	Digest         bool      `json:"digest"`
	ProductUpdates bool      `json:"product_updates"`
	UpdatedAt      time.Time `json:"updated_at"`
}
