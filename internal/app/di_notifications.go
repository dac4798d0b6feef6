package app

import (
	"context"
	"fmt"
	"sync"

	notificationsHTTP "github.com/skillboard/skillboard/internal/notifications/http"
	notificationsService "github.com/skillboard/skillboard/internal/notifications/service"
	notificationsUsecase "github.com/skillboard/skillboard/internal/notifications/usecase"
)

// notificationComponents holds the unsubscribe and digest dependencies.
type notificationComponents struct {
	tokenServiceInit sync.Once
	tokenService     notificationsService.UnsubscribeTokenService
	useCaseInit      sync.Once
	useCase          notificationsUsecase.UseCase
	handlerInit      sync.Once
	handler          *notificationsHTTP.UnsubscribeHandler
	digestInit       sync.Once
	digest           *notificationsUsecase.DigestUseCase
}

// UnsubscribeTokenService returns the signed unsubscribe token service.
// The signing secret is read from the environment on every call, so
// rotating it never requires a restart.
func (c *Container) UnsubscribeTokenService() notificationsService.UnsubscribeTokenService {
	c.notifications.tokenServiceInit.Do(func() {
		c.notifications.tokenService = notificationsService.NewUnsubscribeTokenService(
			notificationsService.NewEnvSecretSource(),
			nil,
		)
	})
	return c.notifications.tokenService
}

// NotificationUseCase returns the unsubscribe use case instance, wrapped
// with business metrics when metrics are enabled.
func (c *Container) NotificationUseCase() (notificationsUsecase.UseCase, error) {
	c.notifications.useCaseInit.Do(func() {
		prefsRepo, err := c.PreferencesRepository()
		if err != nil {
			c.initErrors["notificationUseCase"] = err
			return
		}

		useCase := notificationsUsecase.UseCase(notificationsUsecase.NewNotificationUseCase(
			c.UnsubscribeTokenService(),
			prefsRepo,
			c.Logger(),
		))

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["notificationUseCase"] = err
			return
		}
		if businessMetrics != nil {
			useCase = notificationsUsecase.NewNotificationUseCaseWithMetrics(useCase, businessMetrics)
		}

		c.notifications.useCase = useCase
	})
	if storedErr, exists := c.initErrors["notificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.notifications.useCase, nil
}

// UnsubscribeHandler returns the one-click unsubscribe HTTP handler.
func (c *Container) UnsubscribeHandler() (*notificationsHTTP.UnsubscribeHandler, error) {
	c.notifications.handlerInit.Do(func() {
		useCase, err := c.NotificationUseCase()
		if err != nil {
			c.initErrors["unsubscribeHandler"] = err
			return
		}
		c.notifications.handler = notificationsHTTP.NewUnsubscribeHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["unsubscribeHandler"]; exists {
		return nil, storedErr
	}
	return c.notifications.handler, nil
}

// DigestUseCase returns the weekly digest use case instance.
func (c *Container) DigestUseCase(ctx context.Context) (*notificationsUsecase.DigestUseCase, error) {
	c.notifications.digestInit.Do(func() {
		userUC, err := c.UserUseCase()
		if err != nil {
			c.initErrors["digestUseCase"] = fmt.Errorf("failed to get user use case for digest: %w", err)
			return
		}

		skillUC, err := c.SkillUseCase(ctx)
		if err != nil {
			c.initErrors["digestUseCase"] = fmt.Errorf("failed to get skill use case for digest: %w", err)
			return
		}

		sender, err := c.EmailSender()
		if err != nil {
			c.initErrors["digestUseCase"] = fmt.Errorf("failed to get email sender for digest: %w", err)
			return
		}

		c.notifications.digest = notificationsUsecase.NewDigestUseCase(
			userUC,
			skillUC,
			c.UnsubscribeTokenService(),
			sender,
			notificationsUsecase.DigestConfig{
				SiteBaseURL: c.config.SiteBaseURL,
				BatchSize:   c.config.DigestBatchSize,
				BatchDelay:  c.config.DigestBatchDelay,
			},
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["digestUseCase"]; exists {
		return nil, storedErr
	}
	return c.notifications.digest, nil
}
