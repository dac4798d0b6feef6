// Package domain defines the outbox event entity backing reliable email
// delivery.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus tracks an event through the worker's lifecycle. Events
// start pending, become processed on successful delivery, and become failed
// once the retry budget is exhausted.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types handled by the outbox worker.
const (
	EventTypeWelcomeEmail = "email.welcome"
)

// OutboxEvent represents an event in the transactional outbox pattern.
// Email delivery is enqueued here inside the same transaction that mutates
// state, so a crash between commit and send never loses the message.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
