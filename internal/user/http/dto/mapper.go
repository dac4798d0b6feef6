package dto

import (
	"github.com/skillboard/skillboard/internal/user/domain"
	"github.com/skillboard/skillboard/internal/user/usecase"
)

// ToUserResponse converts a domain user to its response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// ToPreferencesResponse converts domain preferences to their response DTO.
func ToPreferencesResponse(prefs *domain.NotificationPreferences) PreferencesResponse {
	return PreferencesResponse{
		Marketing:      prefs.Marketing,
		Digest:         prefs.Digest,
		ProductUpdates: prefs.ProductUpdates,
		UpdatedAt:      prefs.UpdatedAt,
	}
}

// ToUpdatePreferencesInput converts a validated request to a use case input.
func ToUpdatePreferencesInput(req UpdatePreferencesRequest) usecase.UpdatePreferencesInput {
	return usecase.UpdatePreferencesInput{
		Marketing:      *req.Marketing,
		Digest:         *req.Digest,
		ProductUpdates: *req.ProductUpdates,
	}
}
