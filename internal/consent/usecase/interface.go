package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/allisson/medgate/internal/consent/domain"
)

// ConsentRepository persists per-record consent entries.
type ConsentRepository interface {
	Upsert(ctx context.Context, entry *consentDomain.ConsentEntry) error
	Get(ctx context.Context, recordID uuid.UUID) (*consentDomain.ConsentEntry, error)
	ListPurgeEligible(ctx context.Context, now time.Time) ([]*consentDomain.ConsentEntry, error)
	Delete(ctx context.Context, recordID uuid.UUID) error
}

// ConsentUseCase manages consent and retention bookkeeping. Purge eligibility
// here is advisory; record deletion is a separate explicit operation.
type ConsentUseCase interface {
	Set(ctx context.Context, input *consentDomain.SetConsentInput) (*consentDomain.ConsentEntry, error)
	Get(ctx context.Context, recordID uuid.UUID) (*consentDomain.ConsentEntry, error)
	IsPurgeEligible(ctx context.Context, recordID uuid.UUID, now time.Time) (bool, error)
	ListPurgeEligible(ctx context.Context, now time.Time) ([]*consentDomain.ConsentEntry, error)
	Remove(ctx context.Context, recordID uuid.UUID) error
}
