package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/credstore/internal/metrics"
	"github.com/allisson/credstore/internal/user/domain"
)

// userUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RegisterUser records metrics for user registration operations.
func (u *userUseCaseWithMetrics) RegisterUser(
	ctx context.Context,
	input RegisterUserInput,
) (*domain.User, string, error) {
	start := time.Now()
	user, recoveryCode, err := u.next.RegisterUser(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "register", status)
	u.metrics.RecordDuration(ctx, "user", "register", time.Since(start), status)

	return user, recoveryCode, err
}

// Authenticate records metrics for login operations.
func (u *userUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	input AuthenticateInput,
) (*AuthenticateOutput, error) {
	start := time.Now()
	output, err := u.next.Authenticate(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "authenticate", status)
	u.metrics.RecordDuration(ctx, "user", "authenticate", time.Since(start), status)

	return output, err
}

// VerifySessionToken records metrics for session token verification operations.
func (u *userUseCaseWithMetrics) VerifySessionToken(
	ctx context.Context,
	token string,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.VerifySessionToken(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "verify_session", status)
	u.metrics.RecordDuration(ctx, "user", "verify_session", time.Since(start), status)

	return user, err
}

// ChangePassword records metrics for password change operations.
func (u *userUseCaseWithMetrics) ChangePassword(
	ctx context.Context,
	input ChangePasswordInput,
) error {
	start := time.Now()
	err := u.next.ChangePassword(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "change_password", status)
	u.metrics.RecordDuration(ctx, "user", "change_password", time.Since(start), status)

	return err
}

// ResetPassword records metrics for recovery-code password reset operations.
func (u *userUseCaseWithMetrics) ResetPassword(
	ctx context.Context,
	input ResetPasswordInput,
) (string, error) {
	start := time.Now()
	recoveryCode, err := u.next.ResetPassword(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "reset_password", status)
	u.metrics.RecordDuration(ctx, "user", "reset_password", time.Since(start), status)

	return recoveryCode, err
}

// GetUserByID records metrics for user retrieval operations.
func (u *userUseCaseWithMetrics) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetUserByID(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "get", status)
	u.metrics.RecordDuration(ctx, "user", "get", time.Since(start), status)

	return user, err
}
