package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	auditUseCase "github.com/allisson/medgate/internal/audit/usecase"
	authDomain "github.com/allisson/medgate/internal/auth/domain"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	gatewayDomain "github.com/allisson/medgate/internal/gateway/domain"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) Create(ctx context.Context, input *authDomain.CreateUserInput) (*authDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserUseCase) RotateSecret(ctx context.Context, username string, plainSecret string) error {
	args := m.Called(ctx, username, plainSecret)
	return args.Error(0)
}

type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) GenerateSecret() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSecretService) HashSecret(plainSecret string) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

type mockAuditUseCase struct {
	mock.Mock
}

func (m *mockAuditUseCase) Record(ctx context.Context, entry *auditDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditUseCase) List(ctx context.Context, filter *auditDomain.ListFilter) ([]*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEntry), args.Error(1)
}

func (m *mockAuditUseCase) VerifyAll(ctx context.Context) (*auditUseCase.VerificationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditUseCase.VerificationReport), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateSecretHash(ctx context.Context, userID uuid.UUID, secretHash string) error {
	args := m.Called(ctx, userID, secretHash)
	return args.Error(0)
}

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

func (m *mockGateway) ListRecords(ctx context.Context, actor *authDomain.User, offset, limit int) (*gatewayDomain.RecordListView, error) {
	args := m.Called(ctx, actor, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayDomain.RecordListView), args.Error(1)
}

func (m *mockGateway) CreateRecord(ctx context.Context, actor *authDomain.User, input *recordDomain.CreateRecordInput) (*gatewayDomain.RecordAck, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayDomain.RecordAck), args.Error(1)
}

func (m *mockGateway) EditRecord(ctx context.Context, actor *authDomain.User, recordID uuid.UUID, input *recordDomain.EditRecordInput) (*gatewayDomain.RecordAck, error) {
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

func (m *mockGateway) QueryAuditLog(ctx context.Context, actor *authDomain.User, filter *auditDomain.ListFilter) ([]*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEntry), args.Error(1)
}

func (m *mockGateway) SetConsent(ctx context.Context, actor *authDomain.User, input *consentDomain.SetConsentInput) (*consentDomain.ConsentEntry, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.ConsentEntry), args.Error(1)
}

func (m *mockGateway) PurgeExpired(ctx context.Context, actor *authDomain.User, now time.Time, dryRun bool) (int, error) {
	args := m.Called(ctx, actor, now, dryRun)
	return args.Int(0), args.Error(1)
}
