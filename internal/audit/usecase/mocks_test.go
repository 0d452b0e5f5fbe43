package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
)

type mockAuditRepository struct {
	mock.Mock
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditRepository) List(
	ctx context.Context,
	filter *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEntry), args.Error(1)
}

func (m *mockAuditRepository) ListAllAscending(ctx context.Context) ([]*auditDomain.AuditEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEntry), args.Error(1)
}
