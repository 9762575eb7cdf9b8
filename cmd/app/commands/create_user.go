package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	userUsecase "github.com/allisson/credstore/internal/user/usecase"
)

// RunCreateUser registers a new user account from the command line.
// When password is empty the command prompts for it interactively. Outputs the
// user ID and the one-time recovery code in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	logger *slog.Logger,
	name string,
	email string,
	password string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new user", slog.String("email", email))

	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to get password: %w", err)
		}
	}

	input := userUsecase.RegisterUserInput{
		Name:     name,
		Email:    email,
		Password: password,
	}

	user, recoveryCode, err := userUseCase.RegisterUser(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputUserJSON(user.ID.String(), user.Email, recoveryCode, io.Writer)
	} else {
		outputUserText(user.ID.String(), user.Email, recoveryCode, io.Writer)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
	)

	return nil
}

// promptForPassword interactively prompts the user for a password. The value
// is echoed, so the interactive path is meant for local development only.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// outputUserText outputs the result in human-readable text format.
func outputUserText(userID, email, recoveryCode string, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", userID)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", email)
	_, _ = fmt.Fprintf(writer, "Recovery code: %s\n", recoveryCode)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The recovery code is shown only once. Store it securely.")
}

// outputUserJSON outputs the result in JSON format for machine consumption.
func outputUserJSON(userID, email, recoveryCode string, writer io.Writer) {
	result := map[string]string{
		"user_id":       userID,
		"email":         email,
		"recovery_code": recoveryCode,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
