package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	authService "github.com/allisson/medgate/internal/auth/service"
	authUseCase "github.com/allisson/medgate/internal/auth/usecase"
)

// RunRotateSecret replaces a user's secret. When plainSecret is empty a
// random secret is generated and shown once in the output. Existing
// sessions are not revoked.
func RunRotateSecret(
	ctx context.Context,
	userUseCase authUseCase.UserUseCase,
	secretService authService.SecretService,
	logger *slog.Logger,
	writer io.Writer,
	username, plainSecret, format string,
) error {
	logger.Info("rotating user secret", slog.String("username", username))

	generated := false
	if plainSecret == "" {
		var err error
		plainSecret, _, err = secretService.GenerateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		generated = true
	}

	if err := userUseCase.RotateSecret(ctx, username, plainSecret); err != nil {
		return fmt.Errorf("failed to rotate secret: %w", err)
	}

	if format == "json" {
		result := map[string]string{"username": username}
		if generated {
			result["secret"] = plainSecret
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
			return nil
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintln(writer, "\nSecret rotated successfully!")
		_, _ = fmt.Fprintf(writer, "Username: %s\n", username)
		if generated {
			_, _ = fmt.Fprintf(writer, "Secret: %s\n", plainSecret)
			_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
		}
	}

	logger.Info("secret rotated successfully", slog.String("username", username))
	return nil
}
