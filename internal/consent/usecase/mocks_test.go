package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	consentDomain "github.com/allisson/medgate/internal/consent/domain"
)

type mockConsentRepository struct {
	mock.Mock
}

func (m *mockConsentRepository) Upsert(ctx context.Context, entry *consentDomain.ConsentEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockConsentRepository) Get(
	ctx context.Context,
	recordID uuid.UUID,
) (*consentDomain.ConsentEntry, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.ConsentEntry), args.Error(1)
}

func (m *mockConsentRepository) ListPurgeEligible(
	ctx context.Context,
	now time.Time,
) ([]*consentDomain.ConsentEntry, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consentDomain.ConsentEntry), args.Error(1)
}

func (m *mockConsentRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}
