// Package usecase implements the login session business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/auth/domain"
	"github.com/skillboard/skillboard/internal/auth/oidc"
	authService "github.com/skillboard/skillboard/internal/auth/service"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
	userUseCase "github.com/skillboard/skillboard/internal/user/usecase"
)

// UseCase defines the interface for session business logic operations
type UseCase interface {
	// StartLogin begins the authorization code flow and returns the provider
	// URL the caller should redirect to.
	StartLogin(ctx context.Context) (string, error)

	// CompleteLogin finishes the flow for the given state and code, provisions
	// the user and returns the plain session token to hand to the client.
	CompleteLogin(ctx context.Context, state, code string) (string, *userDomain.User, error)

	// Authenticate resolves a session token hash to its user and session.
	Authenticate(ctx context.Context, tokenHash string) (*userDomain.User, *domain.Session, error)

	// Logout revokes the session.
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// SessionRepository interface defines session repository operations
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionUseCase handles login, session validation and logout
type SessionUseCase struct {
	provider        oidc.Provider
	stateStore      *oidc.StateStore
	tokenService    authService.SessionTokenService
	sessionRepo     SessionRepository
	userUseCase     userUseCase.UseCase
	sessionDuration time.Duration
}

// NewSessionUseCase creates a new SessionUseCase
func NewSessionUseCase(
	provider oidc.Provider,
	stateStore *oidc.StateStore,
	tokenService authService.SessionTokenService,
	sessionRepo SessionRepository,
	userUC userUseCase.UseCase,
	sessionDuration time.Duration,
) *SessionUseCase {
	return &SessionUseCase{
		provider:        provider,
		stateStore:      stateStore,
		tokenService:    tokenService,
		sessionRepo:     sessionRepo,
		userUseCase:     userUC,
		sessionDuration: sessionDuration,
	}
}

// StartLogin generates state, nonce and PKCE values, stores them for the
// callback and returns the provider authorization URL.
func (uc *SessionUseCase) StartLogin(_ context.Context) (string, error) {
	state, err := oidc.GenerateRandomString(32)
	if err != nil {
		return "", err
	}
	nonce, err := oidc.GenerateRandomString(32)
	if err != nil {
		return "", err
	}
	codeVerifier, err := oidc.GenerateRandomString(32)
	if err != nil {
		return "", err
	}

	uc.stateStore.Put(state, oidc.AuthState{
		Nonce:        nonce,
		CodeVerifier: codeVerifier,
	})

	return uc.provider.AuthCodeURL(state, nonce, oidc.CodeChallenge(codeVerifier)), nil
}

// CompleteLogin validates state and nonce, exchanges the code, provisions the
// user from the verified claims and creates a session.
func (uc *SessionUseCase) CompleteLogin(ctx context.Context, state, code string) (string, *userDomain.User, error) {
	if state == "" || code == "" {
		return "", nil, apperrors.Wrap(apperrors.ErrInvalidInput, "missing state or code")
	}

	authState, ok := uc.stateStore.Take(state)
	if !ok {
		return "", nil, domain.ErrStateMismatch
	}

	rawIDToken, err := uc.provider.Exchange(ctx, code, authState.CodeVerifier)
	if err != nil {
		return "", nil, err
	}

	claims, err := uc.provider.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		return "", nil, err
	}

	// Nonce binds the ID token to this login attempt
	if claims.Nonce != authState.Nonce {
		return "", nil, domain.ErrStateMismatch
	}

	user, err := uc.userUseCase.ProvisionUser(ctx, userUseCase.ProvisionUserInput{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		AvatarURL:  claims.Picture,
	})
	if err != nil {
		return "", nil, err
	}

	plainToken, tokenHash, err := uc.tokenService.GenerateToken()
	if err != nil {
		return "", nil, err
	}

	session := &domain.Session{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(uc.sessionDuration),
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, err
	}

	return plainToken, user, nil
}

// Authenticate resolves a session token hash to its user. Expired sessions are
// removed on sight.
func (uc *SessionUseCase) Authenticate(ctx context.Context, tokenHash string) (*userDomain.User, *domain.Session, error) {
	session, err := uc.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, nil, err
	}

	if session.IsExpired(time.Now()) {
		// Best effort cleanup, the session is rejected either way
		_ = uc.sessionRepo.Delete(ctx, session.ID)
		return nil, nil, domain.ErrSessionExpired
	}

	user, err := uc.userUseCase.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Logout revokes the session
func (uc *SessionUseCase) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return uc.sessionRepo.Delete(ctx, sessionID)
}

// PurgeExpiredSessions removes sessions past their expiration
func (uc *SessionUseCase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return uc.sessionRepo.DeleteExpired(ctx)
}
