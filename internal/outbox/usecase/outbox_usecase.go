// Package usecase implements the outbox polling worker and its event processors.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillboard/skillboard/internal/database"
	"github.com/skillboard/skillboard/internal/email"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/notifications/service"
	"github.com/skillboard/skillboard/internal/outbox/domain"
)

// Config holds outbox worker configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor handles delivery of a single outbox event
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the interface for outbox processing
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// OutboxUseCase polls pending events and hands them to the processor.
// Each poll runs in a transaction so SKIP LOCKED row locks hold for the
// whole batch and concurrent workers never double-send.
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	logger         *slog.Logger
}

// NewOutboxUseCase creates a new OutboxUseCase
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		logger:         logger,
	}
}

// Start runs the polling loop until the context is canceled.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox worker",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox worker")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				uc.logger.Error("failed to process outbox events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents delivers one batch of pending events. A delivery failure
// increments the event's retry count; once MaxRetries is reached the event
// is parked as failed and never picked up again.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		uc.logger.Info("processing outbox events", slog.Int("count", len(events)))

		for _, event := range events {
			if err := uc.eventProcessor.Process(ctx, event); err != nil {
				uc.logger.Error("outbox event delivery failed",
					slog.String("event_id", event.ID.String()),
					slog.String("event_type", event.EventType),
					slog.Any("error", err),
				)

				event.Retries++
				errorMsg := err.Error()
				event.LastError = &errorMsg

				if event.Retries >= uc.config.MaxRetries {
					event.Status = domain.OutboxEventStatusFailed
				}

				if err := uc.outboxRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			now := time.Now()
			event.Status = domain.OutboxEventStatusProcessed
			event.ProcessedAt = &now

			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// WelcomeEmailPayload is the JSON body of an email.welcome outbox event.
type WelcomeEmailPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// EmailEventProcessor delivers email outbox events through the configured
// sender. The unsubscribe token is generated at send time, not enqueue
// time, so every delivered link carries a full validity window.
type EmailEventProcessor struct {
	tokenService service.UnsubscribeTokenService
	sender       email.Sender
	siteBaseURL  string
	logger       *slog.Logger
}

// NewEmailEventProcessor creates a new EmailEventProcessor
func NewEmailEventProcessor(
	tokenService service.UnsubscribeTokenService,
	sender email.Sender,
	siteBaseURL string,
	logger *slog.Logger,
) *EmailEventProcessor {
	return &EmailEventProcessor{
		tokenService: tokenService,
		sender:       sender,
		siteBaseURL:  siteBaseURL,
		logger:       logger,
	}
}

// Process dispatches an event to its type-specific handler.
func (p *EmailEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	switch event.EventType {
	case domain.EventTypeWelcomeEmail:
		return p.processWelcomeEmail(ctx, event)
	default:
		return apperrors.New(fmt.Sprintf("unknown outbox event type: %s", event.EventType))
	}
}

func (p *EmailEventProcessor) processWelcomeEmail(ctx context.Context, event *domain.OutboxEvent) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return apperrors.Wrap(err, "failed to decode welcome email payload")
	}

	token, err := p.tokenService.GenerateToken(payload.UserID)
	if err != nil {
		return err
	}

	subject, bodyHTML, err := email.RenderWelcome(email.WelcomeData{
		Name:           payload.Name,
		SiteBaseURL:    p.siteBaseURL,
		UnsubscribeURL: email.UnsubscribeURL(p.siteBaseURL, token, "marketing"),
	})
	if err != nil {
		return err
	}

	return p.sender.Send(ctx, email.Message{
		To:       payload.Email,
		Subject:  subject,
		BodyHTML: bodyHTML,
		Tag:      "welcome",
	})
}
