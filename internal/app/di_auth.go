package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/skillboard/skillboard/internal/auth/http"
	"github.com/skillboard/skillboard/internal/auth/oidc"
	authRepository "github.com/skillboard/skillboard/internal/auth/repository"
	authService "github.com/skillboard/skillboard/internal/auth/service"
	authUsecase "github.com/skillboard/skillboard/internal/auth/usecase"
)

// loginStateTTL bounds how long a started login flow can wait for the
// identity provider callback.
const loginStateTTL = 10 * time.Minute

// authComponents holds the login and session dependencies.
type authComponents struct {
	providerInit     sync.Once
	provider         oidc.Provider
	stateStoreInit   sync.Once
	stateStore       *oidc.StateStore
	tokenServiceInit sync.Once
	tokenService     authService.SessionTokenService
	sessionRepoInit  sync.Once
	sessionRepo      authUsecase.SessionRepository
	useCaseInit      sync.Once
	useCase          *authUsecase.SessionUseCase
	middlewareInit   sync.Once
	middleware       gin.HandlerFunc
	handlerInit      sync.Once
	handler          *authHTTP.AuthHandler
}

// OIDCProvider returns the identity provider client.
// Discovery runs against the configured issuer on first access.
func (c *Container) OIDCProvider(ctx context.Context) (oidc.Provider, error) {
	c.auth.providerInit.Do(func() {
		if c.config.OIDCIssuer == "" {
			c.initErrors["oidcProvider"] = fmt.Errorf("OIDC_ISSUER is not configured")
			return
		}
		provider, err := oidc.NewProvider(ctx, oidc.Config{
			IssuerURL:    c.config.OIDCIssuer,
			ClientID:     c.config.OIDCClientID,
			ClientSecret: c.config.OIDCClientSecret,
			RedirectURL:  c.config.OIDCRedirectURL,
		})
		if err != nil {
			c.initErrors["oidcProvider"] = fmt.Errorf("failed to create oidc provider: %w", err)
			return
		}
		c.auth.provider = provider
	})
	if storedErr, exists := c.initErrors["oidcProvider"]; exists {
		return nil, storedErr
	}
	return c.auth.provider, nil
}

// StateStore returns the in-memory store for pending login flows.
func (c *Container) StateStore() *oidc.StateStore {
	c.auth.stateStoreInit.Do(func() {
		c.auth.stateStore = oidc.NewStateStore(loginStateTTL)
	})
	return c.auth.stateStore
}

// SessionTokenService returns the session token generator and hasher.
func (c *Container) SessionTokenService() authService.SessionTokenService {
	c.auth.tokenServiceInit.Do(func() {
		c.auth.tokenService = authService.NewSessionTokenService()
	})
	return c.auth.tokenService
}

// SessionRepository returns the session repository instance.
func (c *Container) SessionRepository() (authUsecase.SessionRepository, error) {
	c.auth.sessionRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["sessionRepo"] = fmt.Errorf("failed to get database for session repository: %w", err)
			return
		}

		// Select the appropriate repository based on the database driver
		switch c.config.DBDriver {
		case "mysql":
			c.auth.sessionRepo = authRepository.NewMySQLSessionRepository(db)
		case "postgres":
			c.auth.sessionRepo = authRepository.NewPostgreSQLSessionRepository(db)
		default:
			c.initErrors["sessionRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.auth.sessionRepo, nil
}

// SessionUseCase returns the session use case instance.
func (c *Container) SessionUseCase(ctx context.Context) (*authUsecase.SessionUseCase, error) {
	c.auth.useCaseInit.Do(func() {
		provider, err := c.OIDCProvider(ctx)
		if err != nil {
			c.initErrors["sessionUseCase"] = err
			return
		}

		sessionRepo, err := c.SessionRepository()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
			return
		}

		userUC, err := c.UserUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
			return
		}

		c.auth.useCase = authUsecase.NewSessionUseCase(
			provider,
			c.StateStore(),
			c.SessionTokenService(),
			sessionRepo,
			userUC,
			c.config.SessionDuration,
		)
	})
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.useCase, nil
}

// SessionMiddleware returns the gin middleware guarding authenticated routes.
func (c *Container) SessionMiddleware(ctx context.Context) (gin.HandlerFunc, error) {
	c.auth.middlewareInit.Do(func() {
		useCase, err := c.SessionUseCase(ctx)
		if err != nil {
			c.initErrors["sessionMiddleware"] = err
			return
		}
		c.auth.middleware = authHTTP.SessionMiddleware(useCase, c.SessionTokenService(), c.Logger())
	})
	if storedErr, exists := c.initErrors["sessionMiddleware"]; exists {
		return nil, storedErr
	}
	return c.auth.middleware, nil
}

// AuthHandler returns the login flow HTTP handler.
func (c *Container) AuthHandler(ctx context.Context) (*authHTTP.AuthHandler, error) {
	c.auth.handlerInit.Do(func() {
		useCase, err := c.SessionUseCase(ctx)
		if err != nil {
			c.initErrors["authHandler"] = err
			return
		}
		c.auth.handler = authHTTP.NewAuthHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.auth.handler, nil
}
