// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/credstore/internal/crypto"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
	"github.com/allisson/credstore/internal/user/domain"
	appValidation "github.com/allisson/credstore/internal/validation"
)

// Recovery codes use an unambiguous uppercase alphabet (no 0/O, 1/I) so they
// survive being read over the phone or copied by hand.
const (
	recoveryCodeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	recoveryCodeGroups      = 4
	recoveryCodeGroupLength = 5
)

// RegisterUserInput contains the input data for user registration
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateInput contains the credentials for a login attempt
type AuthenticateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateOutput contains the session issued for a successful login
type AuthenticateOutput struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// ChangePasswordInput contains the data for a password change
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ResetPasswordInput contains the data for a recovery-code password reset
type ResetPasswordInput struct {
	Email        string
	RecoveryCode string
	NewPassword  string
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, string, error)
	Authenticate(ctx context.Context, input AuthenticateInput) (*AuthenticateOutput, error)
	VerifySessionToken(ctx context.Context, token string) (*domain.User, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLoginState(ctx context.Context, id uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
	UpdateRecoveryCode(ctx context.Context, id uuid.UUID, recoveryCode []byte) error
}

// PasswordManager abstracts password hashing and verification.
// *password.Manager implements this interface.
type PasswordManager interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encoded string) (bool, error)
	VerifyAndUpdate(ctx context.Context, password, encoded string) (bool, string, error)
}

// SessionSigner abstracts session token issuance and verification.
// *session.Signer implements this interface.
type SessionSigner interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
	Verify(token string) (uuid.UUID, error)
}

// RecoveryCodeKeeper encrypts recovery codes at rest.
// keeper.Keeper implements this interface.
type RecoveryCodeKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// Config holds the account lockout policy.
type Config struct {
	LockoutMaxAttempts int
	LockoutDuration    time.Duration
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	config    Config
	txManager database.TxManager
	userRepo  UserRepository
	passwords PasswordManager
	signer    SessionSigner
	keeper    RecoveryCodeKeeper
	logger    *slog.Logger
	now       func() time.Time
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	config Config,
	txManager database.TxManager,
	userRepo UserRepository,
	passwords PasswordManager,
	signer SessionSigner,
	keeper RecoveryCodeKeeper,
	logger *slog.Logger,
) *UserUseCase {
	return &UserUseCase{
		config:    config,
		txManager: txManager,
		userRepo:  userRepo,
		passwords: passwords,
		signer:    signer,
		keeper:    keeper,
		logger:    logger,
		now:       time.Now,
	}
}

// validateRegisterUserInput validates the registration input using jellydator/validation
func (uc *UserUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// validateNewPassword validates a replacement password against the same policy
// used at registration.
func validateNewPassword(newPassword string) error {
	err := validation.Validate(newPassword,
		validation.Required.Error("password is required"),
		validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		appValidation.PasswordStrength{
			MinLength:      8,
			RequireUpper:   true,
			RequireLower:   true,
			RequireNumber:  true,
			RequireSpecial: true,
		},
	)
	return appValidation.WrapValidationError(err)
}

// RegisterUser registers a new user and returns it along with the plain
// recovery code. The recovery code is shown exactly once: only its encrypted
// form is persisted.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, string, error) {
	// Validate input
	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, "", err
	}

	// Hash the password
	passwordHash, err := uc.passwords.Hash(ctx, input.Password)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "failed to hash password")
	}

	// Generate and encrypt the recovery code
	recoveryCode, err := generateRecoveryCode()
	if err != nil {
		return nil, "", apperrors.Wrap(err, "failed to generate recovery code")
	}
	encryptedCode, err := uc.keeper.Encrypt(ctx, []byte(recoveryCode))
	if err != nil {
		return nil, "", apperrors.Wrap(err, "failed to encrypt recovery code")
	}

	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: passwordHash,
		RecoveryCode: encryptedCode,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		// Repository returns domain errors (e.g. duplicate email)
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, recoveryCode, nil
}

// Authenticate verifies the credentials and issues a session token.
//
// Unknown emails burn a password verification so the response time does not
// reveal whether an account exists. Hashes produced by a deprecated scheme
// are transparently upgraded on a successful login. Repeated failures lock
// the account for the configured duration.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*AuthenticateOutput, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			// Timing equalization: run a verification against an absent hash.
			_, _, _ = uc.passwords.VerifyAndUpdate(ctx, input.Password, "")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked(uc.now()) {
		return nil, domain.ErrUserLocked
	}

	matched, newHash, err := uc.passwords.VerifyAndUpdate(ctx, input.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to verify password")
	}

	if !matched {
		if err := uc.recordFailedLogin(ctx, user); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	// Reset the failure counter and clear any stale lockout.
	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := uc.userRepo.UpdateLoginState(ctx, user.ID, 0, nil); err != nil {
			return nil, err
		}
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
	}

	// Persist the upgraded hash when the stored one used a deprecated scheme.
	if newHash != "" {
		if err := uc.userRepo.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
			return nil, err
		}
		user.PasswordHash = newHash
		uc.logger.Info("password hash upgraded", slog.String("user_id", user.ID.String()))
	}

	token, expiresAt, err := uc.signer.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue session token")
	}

	return &AuthenticateOutput{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// recordFailedLogin increments the failure counter and locks the account when
// the configured threshold is reached.
func (uc *UserUseCase) recordFailedLogin(ctx context.Context, user *domain.User) error {
	attempts := user.FailedLoginAttempts + 1

	var lockedUntil *time.Time
	if uc.config.LockoutMaxAttempts > 0 && attempts >= uc.config.LockoutMaxAttempts {
		deadline := uc.now().Add(uc.config.LockoutDuration)
		lockedUntil = &deadline
		uc.logger.Warn("user account locked",
			slog.String("user_id", user.ID.String()),
			slog.Int("failed_attempts", attempts),
			slog.Time("locked_until", deadline),
		)
	}

	return uc.userRepo.UpdateLoginState(ctx, user.ID, attempts, lockedUntil)
}

// VerifySessionToken validates a session token and loads its user.
func (uc *UserUseCase) VerifySessionToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := uc.signer.Verify(token)
	if err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

// ChangePassword replaces the password after verifying the current one.
func (uc *UserUseCase) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if err := validateNewPassword(input.NewPassword); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	matched, err := uc.passwords.Verify(ctx, input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return apperrors.Wrap(err, "failed to verify current password")
	}
	if !matched {
		return domain.ErrInvalidCredentials
	}

	newHash, err := uc.passwords.Hash(ctx, input.NewPassword)
	if err != nil {
		return apperrors.Wrap(err, "failed to hash new password")
	}

	if err := uc.userRepo.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
		return err
	}

	uc.logger.Info("password changed", slog.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword replaces the password after verifying the recovery code and
// rotates the recovery code. The fresh plain recovery code is returned for
// one-time display. A valid reset also clears any account lockout.
func (uc *UserUseCase) ResetPassword(ctx context.Context, input ResetPasswordInput) (string, error) {
	if err := validateNewPassword(input.NewPassword); err != nil {
		return "", err
	}

	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidRecoveryCode
		}
		return "", err
	}

	storedCode, err := uc.keeper.Decrypt(ctx, user.RecoveryCode)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decrypt recovery code")
	}
	defer crypto.Zero(storedCode)

	if !crypto.ConstantTimeCompare(storedCode, []byte(input.RecoveryCode)) {
		return "", domain.ErrInvalidRecoveryCode
	}

	newHash, err := uc.passwords.Hash(ctx, input.NewPassword)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash new password")
	}

	// Recovery codes are single use: rotate on every successful reset.
	newCode, err := generateRecoveryCode()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate recovery code")
	}
	encryptedCode, err := uc.keeper.Encrypt(ctx, []byte(newCode))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt recovery code")
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
			return err
		}
		if err := uc.userRepo.UpdateRecoveryCode(ctx, user.ID, encryptedCode); err != nil {
			return err
		}
		return uc.userRepo.UpdateLoginState(ctx, user.ID, 0, nil)
	})
	if err != nil {
		return "", err
	}

	uc.logger.Info("password reset with recovery code", slog.String("user_id", user.ID.String()))
	return newCode, nil
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// generateRecoveryCode builds a grouped random code like "ABCDE-FGHJK-LMNPQ-RSTUV".
func generateRecoveryCode() (string, error) {
	groups := make([]string, 0, recoveryCodeGroups)
	for i := 0; i < recoveryCodeGroups; i++ {
		group, err := crypto.RandomString(recoveryCodeGroupLength, recoveryCodeAlphabet)
		if err != nil {
			return "", err
		}
		groups = append(groups, group)
	}
	return strings.Join(groups, "-"), nil
}
