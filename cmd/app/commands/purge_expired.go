package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	authUseCase "github.com/allisson/medgate/internal/auth/usecase"
	gatewayUseCase "github.com/allisson/medgate/internal/gateway/usecase"
)

// RunPurgeExpired deletes records whose consent retention window has
// elapsed. The purge goes through the gateway, so the actor needs the
// delete capability and the decision lands in the audit log. With dryRun
// the eligible records are counted but nothing is deleted.
func RunPurgeExpired(
	ctx context.Context,
	gateway gatewayUseCase.Gateway,
	userRepo authUseCase.UserRepository,
	logger *slog.Logger,
	writer io.Writer,
	username string,
	dryRun bool,
	format string,
) error {
	actor, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load actor: %w", err)
	}

	logger.Info("purging expired records",
		slog.String("actor", username),
		slog.Bool("dry_run", dryRun),
	)

	count, err := gateway.PurgeExpired(ctx, actor, time.Now().UTC(), dryRun)
	if err != nil {
		return fmt.Errorf("failed to purge expired records: %w", err)
	}

	if format == "json" {
		result := map[string]any{
			"dry_run": dryRun,
			"count":   count,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
	} else if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry run: %d record(s) eligible for purge\n", count)
	} else {
		_, _ = fmt.Fprintf(writer, "Purged %d record(s)\n", count)
	}

	logger.Info("purge completed", slog.Int("count", count), slog.Bool("dry_run", dryRun))
	return nil
}
