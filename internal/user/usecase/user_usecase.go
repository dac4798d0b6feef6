// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"encoding/json"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/database"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	outboxDomain "github.com/skillboard/skillboard/internal/outbox/domain"
	"github.com/skillboard/skillboard/internal/user/domain"
	appValidation "github.com/skillboard/skillboard/internal/validation"
)

// ProvisionUserInput contains the identity claims used to create or refresh a user
type ProvisionUserInput struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
}

// UpdatePreferencesInput carries the full set of channel flags
type UpdatePreferencesInput struct {
	Marketing      bool `json:"marketing"`
	Digest         bool `json:"digest"`
	ProductUpdates bool `json:"product_updates"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	ProvisionUser(ctx context.Context, input ProvisionUserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input UpdatePreferencesInput) (*domain.NotificationPreferences, error)
	ListDigestSubscribers(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListDigestSubscribers(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

// PreferencesRepository interface defines notification preference repository operations
type PreferencesRepository interface {
	Create(ctx context.Context, prefs *domain.NotificationPreferences) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error)
	Update(ctx context.Context, prefs *domain.NotificationPreferences) error
}

// OutboxEventRepository interface defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager  database.TxManager
	userRepo   UserRepository
	prefsRepo  PreferencesRepository
	outboxRepo OutboxEventRepository
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	prefsRepo PreferencesRepository,
	outboxRepo OutboxEventRepository,
) *UserUseCase {
	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		prefsRepo:  prefsRepo,
		outboxRepo: outboxRepo,
	}
}

// validateProvisionUserInput validates the identity claims using jellydator/validation
func (uc *UserUseCase) validateProvisionUserInput(input ProvisionUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.ExternalID,
			validation.Required.Error("external_id is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("external_id must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Name,
			validation.Length(0, 255).Error("name must be at most 255 characters"),
		),
		validation.Field(&input.AvatarURL,
			validation.Length(0, 2048).Error("avatar_url must be at most 2048 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ProvisionUser creates a user from identity provider claims on first login,
// or refreshes profile fields on subsequent logins. First-time provisioning
// also creates default notification preferences and enqueues the welcome
// email, all in one transaction.
func (uc *UserUseCase) ProvisionUser(ctx context.Context, input ProvisionUserInput) (*domain.User, error) {
	if err := uc.validateProvisionUserInput(input); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	name := strings.TrimSpace(input.Name)

	existing, err := uc.userRepo.GetByExternalID(ctx, input.ExternalID)
	if err != nil && !apperrors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.Email == email && existing.Name == name && existing.AvatarURL == input.AvatarURL {
			return existing, nil
		}
		existing.Email = email
		existing.Name = name
		existing.AvatarURL = input.AvatarURL
		if err := uc.userRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	user := &domain.User{
		ID:         uuid.Must(uuid.NewV7()),
		ExternalID: input.ExternalID,
		Email:      email,
		Name:       name,
		AvatarURL:  input.AvatarURL,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}

		if err := uc.prefsRepo.Create(ctx, domain.DefaultPreferences(user.ID)); err != nil {
			return err
		}

		eventPayload := map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
			"name":    user.Name,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: outboxDomain.EventTypeWelcomeEmail,
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
			Retries:   0,
		}

		if err := uc.outboxRepo.Create(ctx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetPreferences retrieves the notification preferences for a user
func (uc *UserUseCase) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	return uc.prefsRepo.GetByUserID(ctx, userID)
}

// UpdatePreferences replaces the full set of channel flags for a user
func (uc *UserUseCase) UpdatePreferences(ctx context.Context, userID uuid.UUID, input UpdatePreferencesInput) (*domain.NotificationPreferences, error) {
	prefs, err := uc.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs.Marketing = input.Marketing
	prefs.Digest = input.Digest
	prefs.ProductUpdates = input.ProductUpdates

	if err := uc.prefsRepo.Update(ctx, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}

// ListDigestSubscribers lists users with the digest channel enabled, paginated
func (uc *UserUseCase) ListDigestSubscribers(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.ListDigestSubscribers(ctx, offset, limit)
}
