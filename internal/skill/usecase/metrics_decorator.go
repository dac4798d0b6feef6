package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillboard/skillboard/internal/metrics"
	"github.com/skillboard/skillboard/internal/skill/domain"
)

// skillUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type skillUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewSkillUseCaseWithMetrics wraps a skill UseCase with metrics recording.
func NewSkillUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &skillUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *skillUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "skills", operation, status)
	s.metrics.RecordDuration(ctx, "skills", operation, time.Since(start), status)
}

// Create records metrics for skill creation operations.
func (s *skillUseCaseWithMetrics) Create(ctx context.Context, ownerID uuid.UUID, input CreateSkillInput) (*domain.Skill, error) {
	start := time.Now()
	skill, err := s.next.Create(ctx, ownerID, input)
	s.record(ctx, "create", start, err)
	return skill, err
}

// Update records metrics for skill update operations.
func (s *skillUseCaseWithMetrics) Update(ctx context.Context, ownerID uuid.UUID, slug string, input UpdateSkillInput) (*domain.Skill, error) {
	start := time.Now()
	skill, err := s.next.Update(ctx, ownerID, slug, input)
	s.record(ctx, "update", start, err)
	return skill, err
}

// Delete records metrics for skill delete operations.
func (s *skillUseCaseWithMetrics) Delete(ctx context.Context, ownerID uuid.UUID, slug string) error {
	start := time.Now()
	err := s.next.Delete(ctx, ownerID, slug)
	s.record(ctx, "delete", start, err)
	return err
}

// GetBySlug records metrics for skill detail reads.
func (s *skillUseCaseWithMetrics) GetBySlug(ctx context.Context, slug string) (*domain.Skill, error) {
	start := time.Now()
	skill, err := s.next.GetBySlug(ctx, slug)
	s.record(ctx, "get", start, err)
	return skill, err
}

// List records metrics for skill list reads.
func (s *skillUseCaseWithMetrics) List(ctx context.Context, category string, offset, limit int) ([]*domain.Skill, error) {
	start := time.Now()
	skills, err := s.next.List(ctx, category, offset, limit)
	s.record(ctx, "list", start, err)
	return skills, err
}

// Install records metrics for install counter increments.
func (s *skillUseCaseWithMetrics) Install(ctx context.Context, slug string) error {
	start := time.Now()
	err := s.next.Install(ctx, slug)
	s.record(ctx, "install", start, err)
	return err
}

// Leaderboard records metrics for leaderboard reads.
func (s *skillUseCaseWithMetrics) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	start := time.Now()
	entries, err := s.next.Leaderboard(ctx, limit)
	s.record(ctx, "leaderboard", start, err)
	return entries, err
}
