package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/medgate/internal/config"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	apperrors "github.com/allisson/medgate/internal/errors"
)

type consentUseCase struct {
	config     *config.Config
	repository ConsentRepository
}

// Set records or updates consent for a record. A zero or negative
// RetentionDays falls back to the configured default. ConsentDate is reset
// to now on every update so the retention window restarts from the latest
// consent decision.
func (c *consentUseCase) Set(
	ctx context.Context,
	input *consentDomain.SetConsentInput,
) (*consentDomain.ConsentEntry, error) {
	retentionDays := input.RetentionDays
	if retentionDays <= 0 {
		retentionDays = c.config.DefaultRetentionDays
	}

	now := time.Now().UTC()
	entry := &consentDomain.ConsentEntry{
		RecordID:      input.RecordID,
		ConsentGiven:  input.ConsentGiven,
		ConsentDate:   now,
		RetentionDays: retentionDays,
		UpdatedAt:     now,
	}

	if err := c.repository.Upsert(ctx, entry); err != nil {
		return nil, apperrors.Wrap(err, "failed to set consent")
	}

	return entry, nil
}

// Get retrieves the consent entry for a record.
func (c *consentUseCase) Get(ctx context.Context, recordID uuid.UUID) (*consentDomain.ConsentEntry, error) {
	return c.repository.Get(ctx, recordID)
}

// IsPurgeEligible reports whether the record's retention window has elapsed.
// Records without a consent entry are never purge eligible.
func (c *consentUseCase) IsPurgeEligible(
	ctx context.Context,
	recordID uuid.UUID,
	now time.Time,
) (bool, error) {
	entry, err := c.repository.Get(ctx, recordID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return entry.IsPurgeEligible(now), nil
}

// ListPurgeEligible retrieves entries whose retention window has elapsed.
func (c *consentUseCase) ListPurgeEligible(
	ctx context.Context,
	now time.Time,
) ([]*consentDomain.ConsentEntry, error) {
	return c.repository.ListPurgeEligible(ctx, now)
}

// Remove deletes the consent entry for a record. Called when the record
// itself is purged.
func (c *consentUseCase) Remove(ctx context.Context, recordID uuid.UUID) error {
	return c.repository.Delete(ctx, recordID)
}

// NewConsentUseCase creates a new consent use case.
func NewConsentUseCase(cfg *config.Config, repository ConsentRepository) ConsentUseCase {
	return &consentUseCase{config: cfg, repository: repository}
}
