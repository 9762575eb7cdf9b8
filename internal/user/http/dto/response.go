// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse represents the API response for a user
// It excludes sensitive information like password hashes and recovery codes
// and provides a clean external representation of the user domain model
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterUserResponse represents the API response for user registration.
// SECURITY: The recovery code is only returned once and must be saved securely.
type RegisterUserResponse struct {
	User         UserResponse `json:"user"`
	RecoveryCode string       `json:"recovery_code"`
}

// LoginResponse represents the API response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ResetPasswordResponse represents the API response for a password reset.
// The rotated recovery code is only returned once.
type ResetPasswordResponse struct {
	RecoveryCode string `json:"recovery_code"`
}
