// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/skillboard/skillboard/internal/auth/domain"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
)

// MockSessionUseCase is a mock implementation of usecase.UseCase for testing.
type MockSessionUseCase struct {
	mock.Mock
}

// StartLogin mocks the StartLogin method.
func (m *MockSessionUseCase) StartLogin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// CompleteLogin mocks the CompleteLogin method.
func (m *MockSessionUseCase) CompleteLogin(ctx context.Context, state, code string) (string, *userDomain.User, error) {
	args := m.Called(ctx, state, code)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*userDomain.User), args.Error(2)
}

// Authenticate mocks the Authenticate method.
func (m *MockSessionUseCase) Authenticate(ctx context.Context, tokenHash string) (*userDomain.User, *authDomain.Session, error) {
	args := m.Called(ctx, tokenHash)
	var user *userDomain.User
	var session *authDomain.Session
	if args.Get(0) != nil {
		user = args.Get(0).(*userDomain.User)
	}
	if args.Get(1) != nil {
		session = args.Get(1).(*authDomain.Session)
	}
	return user, session, args.Error(2)
}

// Logout mocks the Logout method.
func (m *MockSessionUseCase) Logout(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
