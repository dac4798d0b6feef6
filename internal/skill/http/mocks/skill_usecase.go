// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/skillboard/skillboard/internal/skill/domain"
	"github.com/skillboard/skillboard/internal/skill/usecase"
)

// MockSkillUseCase is a mock implementation of usecase.UseCase for testing.
type MockSkillUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockSkillUseCase) Create(ctx context.Context, ownerID uuid.UUID, input usecase.CreateSkillInput) (*domain.Skill, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

// Update mocks the Update method.
func (m *MockSkillUseCase) Update(ctx context.Context, ownerID uuid.UUID, slug string, input usecase.UpdateSkillInput) (*domain.Skill, error) {
	args := m.Called(ctx, ownerID, slug, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockSkillUseCase) Delete(ctx context.Context, ownerID uuid.UUID, slug string) error {
	args := m.Called(ctx, ownerID, slug)
	return args.Error(0)
}

// GetBySlug mocks the GetBySlug method.
func (m *MockSkillUseCase) GetBySlug(ctx context.Context, slug string) (*domain.Skill, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

// List mocks the List method.
func (m *MockSkillUseCase) List(ctx context.Context, category string, offset, limit int) ([]*domain.Skill, error) {
	args := m.Called(ctx, category, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Skill), args.Error(1)
}

// Install mocks the Install method.
func (m *MockSkillUseCase) Install(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// Leaderboard mocks the Leaderboard method.
func (m *MockSkillUseCase) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LeaderboardEntry), args.Error(1)
}
