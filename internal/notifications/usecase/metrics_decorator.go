package usecase

import (
	"context"
	"time"

	"github.com/skillboard/skillboard/internal/metrics"
)

// notificationUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type notificationUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewNotificationUseCaseWithMetrics wraps a notification UseCase with metrics recording.
func NewNotificationUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &notificationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Unsubscribe records metrics for unsubscribe outcomes.
func (n *notificationUseCaseWithMetrics) Unsubscribe(ctx context.Context, input UnsubscribeInput) error {
	start := time.Now()
	err := n.next.Unsubscribe(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}
	n.metrics.RecordOperation(ctx, "notifications", "unsubscribe", status)
	n.metrics.RecordDuration(ctx, "notifications", "unsubscribe", time.Since(start), status)

	return err
}
