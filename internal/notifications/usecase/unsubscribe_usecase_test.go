package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/notifications/domain"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
)

// MockUnsubscribeTokenService is a mock implementation of service.UnsubscribeTokenService
type MockUnsubscribeTokenService struct {
	mock.Mock
}

func (m *MockUnsubscribeTokenService) GenerateToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockUnsubscribeTokenService) VerifyToken(token string) (*domain.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenClaims), args.Error(1)
}

// MockPreferencesRepository is a mock implementation of PreferencesRepository
type MockPreferencesRepository struct {
	mock.Mock
}

func (m *MockPreferencesRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*userDomain.NotificationPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.NotificationPreferences), args.Error(1)
}

func (m *MockPreferencesRepository) Update(ctx context.Context, prefs *userDomain.NotificationPreferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNotificationUseCase_Unsubscribe(t *testing.T) {
	userID := uuid.Must(uuid.NewV7())
	issuedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	claims := &domain.TokenClaims{UserID: userID.String(), IssuedAt: issuedAt}

	t.Run("Success_SingleChannel", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		prefs := userDomain.DefaultPreferences(userID)
		mockTokenService.On("VerifyToken", "valid-token").Return(claims, nil)
		mockPrefsRepo.On("GetByUserID", mock.Anything, userID).Return(prefs, nil)
		mockPrefsRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *userDomain.NotificationPreferences) bool {
			return !p.Marketing && p.Digest && p.ProductUpdates
		})).Return(nil)

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "valid-token",
			Type:  "marketing",
		})

		require.NoError(t, err)
		mockPrefsRepo.AssertExpectations(t)
	})

	t.Run("Success_AllChannels", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		prefs := userDomain.DefaultPreferences(userID)
		mockTokenService.On("VerifyToken", "valid-token").Return(claims, nil)
		mockPrefsRepo.On("GetByUserID", mock.Anything, userID).Return(prefs, nil)
		mockPrefsRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *userDomain.NotificationPreferences) bool {
			return !p.Marketing && !p.Digest && !p.ProductUpdates
		})).Return(nil)

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "valid-token",
			Type:  "all",
		})

		require.NoError(t, err)
		mockPrefsRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownType", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "valid-token",
			Type:  "newsletter",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidType)
		mockTokenService.AssertNotCalled(t, "VerifyToken", mock.Anything)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		mockTokenService.On("VerifyToken", "bad-token").Return(nil, domain.ErrInvalidToken)

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "bad-token",
			Type:  "digest",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		mockPrefsRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingSecretPropagates", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		configErr := apperrors.Wrap(apperrors.ErrConfiguration, "no secret configured")
		mockTokenService.On("VerifyToken", "any-token").Return(nil, configErr)

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "any-token",
			Type:  "digest",
		})

		assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
	})

	t.Run("Error_NonUUIDSubjectCollapsesToInvalidToken", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		mockTokenService.On("VerifyToken", "valid-token").
			Return(&domain.TokenClaims{UserID: "not-a-uuid", IssuedAt: issuedAt}, nil)

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "valid-token",
			Type:  "digest",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		mockPrefsRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})

	t.Run("Error_UnknownUserCollapsesToInvalidToken", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		mockTokenService.On("VerifyToken", "valid-token").Return(claims, nil)
		mockPrefsRepo.On("GetByUserID", mock.Anything, userID).Return(nil, userDomain.ErrUserNotFound)

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "valid-token",
			Type:  "digest",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("Error_UpdateFails", func(t *testing.T) {
		mockTokenService := new(MockUnsubscribeTokenService)
		mockPrefsRepo := new(MockPreferencesRepository)
		useCase := NewNotificationUseCase(mockTokenService, mockPrefsRepo, testLogger())

		prefs := userDomain.DefaultPreferences(userID)
		mockTokenService.On("VerifyToken", "valid-token").Return(claims, nil)
		mockPrefsRepo.On("GetByUserID", mock.Anything, userID).Return(prefs, nil)
		mockPrefsRepo.On("Update", mock.Anything, mock.Anything).Return(assert.AnError)

		err := useCase.Unsubscribe(context.Background(), UnsubscribeInput{
			Token: "valid-token",
			Type:  "digest",
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}
