// Package mocks provides mock implementations for testing consumers of the user use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	userDomain "github.com/allisson/credstore/internal/user/domain"
	userUsecase "github.com/allisson/credstore/internal/user/usecase"
)

// MockUserUseCase is a mock implementation of UseCase for testing.
type MockUserUseCase struct {
	mock.Mock
}

// RegisterUser mocks the RegisterUser method of UseCase.
func (m *MockUserUseCase) RegisterUser(
	ctx context.Context,
	input userUsecase.RegisterUserInput,
) (*userDomain.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*userDomain.User), args.String(1), args.Error(2)
}

// Authenticate mocks the Authenticate method of UseCase.
func (m *MockUserUseCase) Authenticate(
	ctx context.Context,
	input userUsecase.AuthenticateInput,
) (*userUsecase.AuthenticateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userUsecase.AuthenticateOutput), args.Error(1)
}

// VerifySessionToken mocks the VerifySessionToken method of UseCase.
func (m *MockUserUseCase) VerifySessionToken(ctx context.Context, token string) (*userDomain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// ChangePassword mocks the ChangePassword method of UseCase.
func (m *MockUserUseCase) ChangePassword(ctx context.Context, input userUsecase.ChangePasswordInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// ResetPassword mocks the ResetPassword method of UseCase.
func (m *MockUserUseCase) ResetPassword(
	ctx context.Context,
	input userUsecase.ResetPasswordInput,
) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

// GetUserByID mocks the GetUserByID method of UseCase.
func (m *MockUserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
