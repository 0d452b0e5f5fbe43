package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	authDomain "github.com/allisson/medgate/internal/auth/domain"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	gatewayDomain "github.com/allisson/medgate/internal/gateway/domain"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

func (m *mockGateway) Logout(ctx context.Context, actor *authDomain.User, tokenHash string) error {
	args := m.Called(ctx, actor, tokenHash)
	return args.Error(0)
}

func (m *mockGateway) Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockGateway) ListRecords(
	ctx context.Context,
	actor *authDomain.User,
	offset, limit int,
) (*gatewayDomain.RecordListView, error) {
	args := m.Called(ctx, actor, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayDomain.RecordListView), args.Error(1)
}

func (m *mockGateway) CreateRecord(
	ctx context.Context,
	actor *authDomain.User,
	input *recordDomain.CreateRecordInput,
) (*gatewayDomain.RecordAck, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayDomain.RecordAck), args.Error(1)
}

func (m *mockGateway) EditRecord(
	ctx context.Context,
	actor *authDomain.User,
	recordID uuid.UUID,
	input *recordDomain.EditRecordInput,
) (*gatewayDomain.RecordAck, error) {
	args := m.Called(ctx, actor, recordID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayDomain.RecordAck), args.Error(1)
}

func (m *mockGateway) DeleteRecord(ctx context.Context, actor *authDomain.User, recordID uuid.UUID) error {
	args := m.Called(ctx, actor, recordID)
	return args.Error(0)
}

func (m *mockGateway) AnonymizeAll(ctx context.Context, actor *authDomain.User) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

func (m *mockGateway) QueryAuditLog(
	ctx context.Context,
	actor *authDomain.User,
	filter *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEntry), args.Error(1)
}

func (m *mockGateway) SetConsent(
	ctx context.Context,
	actor *authDomain.User,
	input *consentDomain.SetConsentInput,
) (*consentDomain.ConsentEntry, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.ConsentEntry), args.Error(1)
}

func (m *mockGateway) PurgeExpired(
	ctx context.Context,
	actor *authDomain.User,
	now time.Time,
	dryRun bool,
) (int, error) {
	args := m.Called(ctx, actor, now, dryRun)
	return args.Int(0), args.Error(1)
}
