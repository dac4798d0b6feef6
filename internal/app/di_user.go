package app

import (
	"fmt"
	"sync"

	outboxRepository "github.com/skillboard/skillboard/internal/outbox/repository"
	userHTTP "github.com/skillboard/skillboard/internal/user/http"
	userRepository "github.com/skillboard/skillboard/internal/user/repository"
	userUsecase "github.com/skillboard/skillboard/internal/user/usecase"
)

// userComponents holds the user profile and preferences dependencies.
type userComponents struct {
	repoInit       sync.Once
	repo           userUsecase.UserRepository
	prefsRepoInit  sync.Once
	prefsRepo      userUsecase.PreferencesRepository
	outboxRepoInit sync.Once
	outboxRepo     userUsecase.OutboxEventRepository
	useCaseInit    sync.Once
	useCase        userUsecase.UseCase
	handlerInit    sync.Once
	handler        *userHTTP.UserHandler
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.user.repoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}

		// Select the appropriate repository based on the database driver
		switch c.config.DBDriver {
		case "mysql":
			c.user.repo = userRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.user.repo = userRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.user.repo, nil
}

// PreferencesRepository returns the notification preferences repository instance.
func (c *Container) PreferencesRepository() (userUsecase.PreferencesRepository, error) {
	c.user.prefsRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["prefsRepo"] = fmt.Errorf("failed to get database for preferences repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.user.prefsRepo = userRepository.NewMySQLPreferencesRepository(db)
		case "postgres":
			c.user.prefsRepo = userRepository.NewPostgreSQLPreferencesRepository(db)
		default:
			c.initErrors["prefsRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["prefsRepo"]; exists {
		return nil, storedErr
	}
	return c.user.prefsRepo, nil
}

// userOutboxRepository returns the outbox repository narrowed to the
// enqueue-only interface user provisioning needs.
func (c *Container) userOutboxRepository() (userUsecase.OutboxEventRepository, error) {
	c.user.outboxRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userOutboxRepo"] = fmt.Errorf("failed to get database for outbox repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.user.outboxRepo = outboxRepository.NewMySQLOutboxEventRepository(db)
		case "postgres":
			c.user.outboxRepo = outboxRepository.NewPostgreSQLOutboxEventRepository(db)
		default:
			c.initErrors["userOutboxRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["userOutboxRepo"]; exists {
		return nil, storedErr
	}
	return c.user.outboxRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	c.user.useCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}

		prefsRepo, err := c.PreferencesRepository()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}

		outboxRepo, err := c.userOutboxRepository()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}

		c.user.useCase = userUsecase.NewUserUseCase(txManager, userRepo, prefsRepo, outboxRepo)
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.user.useCase, nil
}

// UserHandler returns the user profile HTTP handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	c.user.handlerInit.Do(func() {
		useCase, err := c.UserUseCase()
		if err != nil {
			c.initErrors["userHandler"] = err
			return
		}
		c.user.handler = userHTTP.NewUserHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.user.handler, nil
}
