package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	auditUseCase "github.com/allisson/medgate/internal/audit/usecase"
)

// RunVerifyAuditLogs verifies the HMAC signature of every audit entry.
// An entry is accepted if any key in the master key chain verifies it, so
// entries signed before a key rotation still pass.
//
// Requirements: Database must be migrated and the master key chain loaded.
func RunVerifyAuditLogs(
	ctx context.Context,
	auditUC auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("verifying audit log integrity")

	report, err := auditUC.VerifyAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify audit logs: %w", err)
	}

	if format == "json" {
		if err := outputVerifyJSON(writer, report); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputVerifyText(writer, report)
	}

	logger.Info("verification completed",
		slog.Int("total_checked", report.Checked),
		slog.Int("invalid", len(report.InvalidSeqs)),
	)

	if len(report.InvalidSeqs) > 0 {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", len(report.InvalidSeqs))
	}

	return nil
}

// outputVerifyText outputs the verification result in human-readable text format.
func outputVerifyText(writer io.Writer, report *auditUseCase.VerificationReport) {
	_, _ = fmt.Fprintf(writer, "Audit Log Integrity Verification\n")
	_, _ = fmt.Fprintf(writer, "=================================\n\n")
	_, _ = fmt.Fprintf(writer, "Total Checked:  %d\n", report.Checked)
	_, _ = fmt.Fprintf(writer, "Valid:          %d\n", report.Checked-len(report.InvalidSeqs))
	_, _ = fmt.Fprintf(writer, "Invalid:        %d\n\n", len(report.InvalidSeqs))

	if len(report.InvalidSeqs) > 0 {
		_, _ = fmt.Fprintf(writer, "WARNING: %d entry(ies) failed integrity check!\n\n", len(report.InvalidSeqs))
		_, _ = fmt.Fprintf(writer, "Invalid Sequence IDs:\n")
		for _, seq := range report.InvalidSeqs {
			_, _ = fmt.Fprintf(writer, "  - %d\n", seq)
		}
		return
	}

	_, _ = fmt.Fprintf(writer, "All audit entries passed integrity verification.\n")
}

// outputVerifyJSON outputs the verification result in JSON format.
func outputVerifyJSON(writer io.Writer, report *auditUseCase.VerificationReport) error {
	result := map[string]any{
		"total_checked": report.Checked,
		"valid":         report.Checked - len(report.InvalidSeqs),
		"invalid":       len(report.InvalidSeqs),
		"invalid_seqs":  report.InvalidSeqs,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
