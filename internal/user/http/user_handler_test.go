package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/credstore/internal/session"
	"github.com/allisson/credstore/internal/user/domain"
	"github.com/allisson/credstore/internal/user/http/dto"
	"github.com/allisson/credstore/internal/user/usecase"
)

// MockUserUseCase is a mock implementation of usecase.UseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) RegisterUser(
	ctx context.Context,
	input usecase.RegisterUserInput,
) (*domain.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockUserUseCase) Authenticate(
	ctx context.Context,
	input usecase.AuthenticateInput,
) (*usecase.AuthenticateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthenticateOutput), args.Error(1)
}

func (m *MockUserUseCase) VerifySessionToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockUserUseCase) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockUserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// setupTestRouter builds a gin router with the user routes registered,
// mirroring the production route layout.
func setupTestRouter(t *testing.T) (*gin.Engine, *MockUserUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &MockUserUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewUserHandler(mockUseCase, logger)

	router := gin.New()
	v1 := router.Group("/v1")
	v1.POST("/users", handler.Register)
	v1.POST("/login", handler.Login)
	v1.POST("/password-reset", handler.ResetPassword)

	authenticated := v1.Group("", SessionMiddleware(mockUseCase, logger))
	authenticated.GET("/me", handler.Me)
	authenticated.PUT("/me/password", handler.ChangePassword)

	return router, mockUseCase
}

// doJSONRequest performs a request with an optional JSON body and bearer token.
func doJSONRequest(
	t *testing.T,
	router *gin.Engine,
	method, path string,
	body any,
	token string,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testUser() *domain.User {
	return &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "Test User",
		Email:     "test@example.com",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)
		user := testUser()

		mockUseCase.On("RegisterUser", mock.Anything, usecase.RegisterUserInput{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "Sup3r-Secret!",
		}).Return(user, "ABCDE-FGHJK-LMNPQ-RSTUV", nil).Once()

		w := doJSONRequest(t, router, http.MethodPost, "/v1/users", dto.RegisterUserRequest{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "Sup3r-Secret!",
		}, "")

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.RegisterUserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, user.ID, response.User.ID)
		assert.Equal(t, "ABCDE-FGHJK-LMNPQ-RSTUV", response.RecoveryCode)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewReader([]byte("invalid json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_ValidationFailed", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doJSONRequest(t, router, http.MethodPost, "/v1/users", dto.RegisterUserRequest{
			Name:     "Test User",
			Email:    "not-an-email",
			Password: "Sup3r-Secret!",
		}, "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("RegisterUser", mock.Anything, mock.Anything).
			Return(nil, "", domain.ErrUserAlreadyExists).Once()

		w := doJSONRequest(t, router, http.MethodPost, "/v1/users", dto.RegisterUserRequest{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "Sup3r-Secret!",
		}, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)
		user := testUser()
		expiresAt := time.Now().Add(time.Hour).UTC()

		mockUseCase.On("Authenticate", mock.Anything, usecase.AuthenticateInput{
			Email:    "test@example.com",
			Password: "Sup3r-Secret!",
		}).Return(&usecase.AuthenticateOutput{
			User:      user,
			Token:     "signed-token",
			ExpiresAt: expiresAt,
		}, nil).Once()

		w := doJSONRequest(t, router, http.MethodPost, "/v1/login", dto.LoginRequest{
			Email:    "test@example.com",
			Password: "Sup3r-Secret!",
		}, "")

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "signed-token", response.Token)
		assert.Equal(t, expiresAt.Unix(), response.ExpiresAt.Unix())
		assert.Equal(t, user.ID, response.User.ID)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, domain.ErrInvalidCredentials).Once()

		w := doJSONRequest(t, router, http.MethodPost, "/v1/login", dto.LoginRequest{
			Email:    "test@example.com",
			Password: "wrong-password",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_AccountLocked", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, domain.ErrUserLocked).Once()

		w := doJSONRequest(t, router, http.MethodPost, "/v1/login", dto.LoginRequest{
			Email:    "test@example.com",
			Password: "Sup3r-Secret!",
		}, "")

		assert.Equal(t, http.StatusLocked, w.Code)
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doJSONRequest(t, router, http.MethodPost, "/v1/login", dto.LoginRequest{}, "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestUserHandler_Me(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)
		user := testUser()

		mockUseCase.On("VerifySessionToken", mock.Anything, "valid-token").Return(user, nil).Once()

		w := doJSONRequest(t, router, http.MethodGet, "/v1/me", nil, "valid-token")

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, user.ID, response.ID)
		assert.Equal(t, user.Email, response.Email)
	})

	t.Run("Error_MissingToken", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doJSONRequest(t, router, http.MethodGet, "/v1/me", nil, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("VerifySessionToken", mock.Anything, "bad-token").
			Return(nil, session.ErrTokenInvalid).Once()

		w := doJSONRequest(t, router, http.MethodGet, "/v1/me", nil, "bad-token")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_UserDeleted", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("VerifySessionToken", mock.Anything, "orphan-token").
			Return(nil, domain.ErrUserNotFound).Once()

		w := doJSONRequest(t, router, http.MethodGet, "/v1/me", nil, "orphan-token")

		// Not 404: the response must not reveal whether the account existed.
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserHandler_ChangePassword(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)
		user := testUser()

		mockUseCase.On("VerifySessionToken", mock.Anything, "valid-token").Return(user, nil).Once()
		mockUseCase.On("ChangePassword", mock.Anything, usecase.ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "Sup3r-Secret!",
			NewPassword:     "N3w-Secret-Pass!",
		}).Return(nil).Once()

		w := doJSONRequest(t, router, http.MethodPut, "/v1/me/password", dto.ChangePasswordRequest{
			CurrentPassword: "Sup3r-Secret!",
			NewPassword:     "N3w-Secret-Pass!",
		}, "valid-token")

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_WrongCurrentPassword", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)
		user := testUser()

		mockUseCase.On("VerifySessionToken", mock.Anything, "valid-token").Return(user, nil).Once()
		mockUseCase.On("ChangePassword", mock.Anything, mock.Anything).
			Return(domain.ErrInvalidCredentials).Once()

		w := doJSONRequest(t, router, http.MethodPut, "/v1/me/password", dto.ChangePasswordRequest{
			CurrentPassword: "wrong-password",
			NewPassword:     "N3w-Secret-Pass!",
		}, "valid-token")

		// Mapped to 422 on an authenticated request, not 401.
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doJSONRequest(t, router, http.MethodPut, "/v1/me/password", dto.ChangePasswordRequest{
			CurrentPassword: "Sup3r-Secret!",
			NewPassword:     "N3w-Secret-Pass!",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserHandler_ResetPassword(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("ResetPassword", mock.Anything, usecase.ResetPasswordInput{
			Email:        "test@example.com",
			RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
			NewPassword:  "N3w-Secret-Pass!",
		}).Return("VWXYZ-23456-789AB-CDEFG", nil).Once()

		w := doJSONRequest(t, router, http.MethodPost, "/v1/password-reset", dto.ResetPasswordRequest{
			Email:        "test@example.com",
			RecoveryCode: "ABCDE-FGHJK-LMNPQ-RSTUV",
			NewPassword:  "N3w-Secret-Pass!",
		}, "")

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ResetPasswordResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "VWXYZ-23456-789AB-CDEFG", response.RecoveryCode)
	})

	t.Run("Error_InvalidRecoveryCode", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("ResetPassword", mock.Anything, mock.Anything).
			Return("", domain.ErrInvalidRecoveryCode).Once()

		w := doJSONRequest(t, router, http.MethodPost, "/v1/password-reset", dto.ResetPasswordRequest{
			Email:        "test@example.com",
			RecoveryCode: "WRONG-WRONG-WRONG-WRONG",
			NewPassword:  "N3w-Secret-Pass!",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
