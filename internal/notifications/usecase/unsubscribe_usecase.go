// Package usecase implements notification business logic: one-click
// unsubscription and the weekly digest send.
package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/notifications/domain"
	"github.com/skillboard/skillboard/internal/notifications/service"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
)

// UnsubscribeInput carries the raw request body of the unsubscribe endpoint.
type UnsubscribeInput struct {
	Token string
	Type  string
}

// UseCase defines notification operations exposed over HTTP.
type UseCase interface {
	// Unsubscribe verifies the token and disables the requested channel
	// for the user it identifies. Every failure except a missing signing
	// secret is reported as domain.ErrInvalidToken so the endpoint leaks
	// nothing about why a token was rejected.
	Unsubscribe(ctx context.Context, input UnsubscribeInput) error
}

// PreferencesRepository is the slice of the user preference store this
// use case needs.
type PreferencesRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*userDomain.NotificationPreferences, error)
	Update(ctx context.Context, prefs *userDomain.NotificationPreferences) error
}

// NotificationUseCase handles unsubscribe requests.
type NotificationUseCase struct {
	tokenService service.UnsubscribeTokenService
	prefsRepo    PreferencesRepository
	logger       *slog.Logger
}

// NewNotificationUseCase creates a new NotificationUseCase.
func NewNotificationUseCase(
	tokenService service.UnsubscribeTokenService,
	prefsRepo PreferencesRepository,
	logger *slog.Logger,
) *NotificationUseCase {
	return &NotificationUseCase{
		tokenService: tokenService,
		prefsRepo:    prefsRepo,
		logger:       logger,
	}
}

// Unsubscribe verifies the token, resolves the user and turns off the
// requested notification channel.
func (uc *NotificationUseCase) Unsubscribe(ctx context.Context, input UnsubscribeInput) error {
	unsubscribeType, err := domain.ParseUnsubscribeType(input.Type)
	if err != nil {
		return err
	}

	claims, err := uc.tokenService.VerifyToken(input.Token)
	if err != nil {
		return err
	}

	// The token payload is attacker-controlled up to the signature check,
	// and users can be deleted after a token was issued. Both cases
	// collapse into the uniform invalid-token error.
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.ErrInvalidToken
	}

	prefs, err := uc.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}

	if unsubscribeType == domain.TypeAll {
		prefs.DisableAll()
	} else {
		channel, ok := unsubscribeType.Channel()
		if !ok {
			return domain.ErrInvalidType
		}
		if err := prefs.Disable(channel); err != nil {
			return apperrors.Wrap(err, "failed to disable channel")
		}
	}

	if err := uc.prefsRepo.Update(ctx, prefs); err != nil {
		return err
	}

	uc.logger.Info("unsubscribe applied",
		slog.String("user_id", userID.String()),
		slog.String("type", string(unsubscribeType)),
	)

	return nil
}
