// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"github.com/allisson/credstore/internal/user/domain"
	"github.com/allisson/credstore/internal/user/usecase"
)

// ToRegisterUserInput converts a RegisterUserRequest DTO to a RegisterUserInput use case input
func ToRegisterUserInput(req RegisterUserRequest) usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToAuthenticateInput converts a LoginRequest DTO to an AuthenticateInput use case input
func ToAuthenticateInput(req LoginRequest) usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToResetPasswordInput converts a ResetPasswordRequest DTO to a ResetPasswordInput use case input
func ToResetPasswordInput(req ResetPasswordRequest) usecase.ResetPasswordInput {
	return usecase.ResetPasswordInput{
		Email:        req.Email,
		RecoveryCode: req.RecoveryCode,
		NewPassword:  req.NewPassword,
	}
}

// ToUserResponse converts a domain User model to a UserResponse DTO
// This enforces the boundary between internal domain models and external API contracts
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToRegisterUserResponse builds the one-time registration response.
func ToRegisterUserResponse(user *domain.User, recoveryCode string) RegisterUserResponse {
	return RegisterUserResponse{
		User:         ToUserResponse(user),
		RecoveryCode: recoveryCode,
	}
}

// ToLoginResponse builds the login response from the authentication output.
func ToLoginResponse(output *usecase.AuthenticateOutput) LoginResponse {
	return LoginResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
		User:      ToUserResponse(output.User),
	}
}
