// Package mocks provides mock implementations for testing notification HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skillboard/skillboard/internal/notifications/usecase"
)

// MockNotificationUseCase is a mock implementation of usecase.UseCase
type MockNotificationUseCase struct {
	mock.Mock
}

func (m *MockNotificationUseCase) Unsubscribe(ctx context.Context, input usecase.UnsubscribeInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
