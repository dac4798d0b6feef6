package app

import (
	"fmt"
	"sync"

	outboxRepository "github.com/skillboard/skillboard/internal/outbox/repository"
	outboxUsecase "github.com/skillboard/skillboard/internal/outbox/usecase"
)

// outboxComponents holds the email outbox worker dependencies.
type outboxComponents struct {
	repoInit    sync.Once
	repo        outboxUsecase.OutboxEventRepository
	useCaseInit sync.Once
	useCase     outboxUsecase.UseCase
}

// OutboxRepository returns the outbox event repository instance.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	c.outbox.repoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["outboxRepo"] = fmt.Errorf("failed to get database for outbox repository: %w", err)
			return
		}

		// Select the appropriate repository based on the database driver
		switch c.config.DBDriver {
		case "mysql":
			c.outbox.repo = outboxRepository.NewMySQLOutboxEventRepository(db)
		case "postgres":
			c.outbox.repo = outboxRepository.NewPostgreSQLOutboxEventRepository(db)
		default:
			c.initErrors["outboxRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outbox.repo, nil
}

// OutboxUseCase returns the outbox worker use case instance.
func (c *Container) OutboxUseCase() (outboxUsecase.UseCase, error) {
	c.outbox.useCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["outboxUseCase"] = err
			return
		}

		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			c.initErrors["outboxUseCase"] = err
			return
		}

		sender, err := c.EmailSender()
		if err != nil {
			c.initErrors["outboxUseCase"] = err
			return
		}

		eventProcessor := outboxUsecase.NewEmailEventProcessor(
			c.UnsubscribeTokenService(),
			sender,
			c.config.SiteBaseURL,
			c.Logger(),
		)

		c.outbox.useCase = outboxUsecase.NewOutboxUseCase(
			outboxUsecase.Config{
				Interval:   c.config.OutboxWorkerInterval,
				BatchSize:  c.config.OutboxBatchSize,
				MaxRetries: c.config.OutboxMaxRetries,
			},
			txManager,
			outboxRepo,
			eventProcessor,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["outboxUseCase"]; exists {
		return nil, storedErr
	}
	return c.outbox.useCase, nil
}
