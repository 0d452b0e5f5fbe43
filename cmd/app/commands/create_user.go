package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
	authService "github.com/allisson/medgate/internal/auth/service"
	authUseCase "github.com/allisson/medgate/internal/auth/usecase"
)

// RunCreateUser creates a new user with the given role. When plainSecret is
// empty a random secret is generated and shown once in the output.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	userUseCase authUseCase.UserUseCase,
	secretService authService.SecretService,
	logger *slog.Logger,
	writer io.Writer,
	username, roleName string,
	isActive bool,
	plainSecret, format string,
) error {
	role, err := authDomain.ParseRole(roleName)
	if err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}

	logger.Info("creating new user",
		slog.String("username", username),
		slog.String("role", string(role)),
	)

	generated := false
	if plainSecret == "" {
		plainSecret, _, err = secretService.GenerateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		generated = true
	}

	user, err := userUseCase.Create(ctx, &authDomain.CreateUserInput{
		Username:    username,
		PlainSecret: plainSecret,
		Role:        role,
		IsActive:    isActive,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputUserJSON(writer, user, plainSecret, generated)
	} else {
		outputUserText(writer, user, plainSecret, generated)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", username),
		slog.Bool("is_active", isActive),
	)

	return nil
}

// outputUserText outputs the result in human-readable text format.
func outputUserText(writer io.Writer, user *authDomain.User, plainSecret string, generated bool) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", user.ID.String())
	_, _ = fmt.Fprintf(writer, "Username: %s\n", user.Username)
	_, _ = fmt.Fprintf(writer, "Role: %s\n", user.Role)
	if generated {
		_, _ = fmt.Fprintf(writer, "Secret: %s\n", plainSecret)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
	}
}

// outputUserJSON outputs the result in JSON format for machine consumption.
func outputUserJSON(writer io.Writer, user *authDomain.User, plainSecret string, generated bool) {
	result := map[string]string{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     string(user.Role),
	}
	if generated {
		result["secret"] = plainSecret
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
