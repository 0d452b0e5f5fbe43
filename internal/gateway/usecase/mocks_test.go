package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	auditUseCase "github.com/allisson/medgate/internal/audit/usecase"
	authDomain "github.com/allisson/medgate/internal/auth/domain"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	cryptoDomain "github.com/allisson/medgate/internal/crypto/domain"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

func (m *mockAuthUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockAuthUseCase) Logout(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

type mockRecordRepository struct {
	mock.Mock
}

func (m *mockRecordRepository) Create(ctx context.Context, record *recordDomain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordRepository) Get(ctx context.Context, recordID uuid.UUID) (*recordDomain.Record, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recordDomain.Record), args.Error(1)
}

func (m *mockRecordRepository) List(ctx context.Context, offset, limit int) ([]*recordDomain.Record, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recordDomain.Record), args.Error(1)
}

func (m *mockRecordRepository) ListByState(
	ctx context.Context,
	state recordDomain.AnonymizationState,
) ([]*recordDomain.Record, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recordDomain.Record), args.Error(1)
}

func (m *mockRecordRepository) Update(ctx context.Context, record *recordDomain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

func (m *mockRecordRepository) MaxPseudonymSeq(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockConsentUseCase struct {
	mock.Mock
}

func (m *mockConsentUseCase) Set(
	ctx context.Context,
	input *consentDomain.SetConsentInput,
) (*consentDomain.ConsentEntry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.ConsentEntry), args.Error(1)
}

func (m *mockConsentUseCase) Get(ctx context.Context, recordID uuid.UUID) (*consentDomain.ConsentEntry, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.ConsentEntry), args.Error(1)
}

func (m *mockConsentUseCase) IsPurgeEligible(
	ctx context.Context,
	recordID uuid.UUID,
	now time.Time,
) (bool, error) {
	args := m.Called(ctx, recordID, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockConsentUseCase) ListPurgeEligible(
	ctx context.Context,
	now time.Time,
) ([]*consentDomain.ConsentEntry, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consentDomain.ConsentEntry), args.Error(1)
}

func (m *mockConsentUseCase) Remove(ctx context.Context, recordID uuid.UUID) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

// recordingAuditUseCase captures entries in memory so tests can assert
// exactly one entry per gateway decision.
type recordingAuditUseCase struct {
	mu        sync.Mutex
	entries   []*auditDomain.AuditEntry
	recordErr error
	listErr   error
	nextSeq   int64
}

func (r *recordingAuditUseCase) Record(_ context.Context, entry *auditDomain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recordErr != nil {
		return r.recordErr
	}
	r.nextSeq++
	entry.SequenceID = r.nextSeq
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAuditUseCase) List(
	_ context.Context,
	_ *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	reversed := make([]*auditDomain.AuditEntry, len(r.entries))
	for i, entry := range r.entries {
		reversed[len(r.entries)-1-i] = entry
	}
	return reversed, nil
}

func (r *recordingAuditUseCase) VerifyAll(_ context.Context) (*auditUseCase.VerificationReport, error) {
	return &auditUseCase.VerificationReport{Checked: len(r.entries)}, nil
}

// memoryRecordRepository is a mutex-guarded store for tests that need
// real read-after-write behavior across concurrent calls. Values are
// copied on the way in and out, like rows scanned from a database.
type memoryRecordRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]*recordDomain.Record
}

func newMemoryRecordRepository(records ...*recordDomain.Record) *memoryRecordRepository {
	m := &memoryRecordRepository{records: make(map[uuid.UUID]*recordDomain.Record)}
	for _, record := range records {
		copied := *record
		m.records[record.ID] = &copied
	}
	return m
}

func (m *memoryRecordRepository) Create(_ context.Context, record *recordDomain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *memoryRecordRepository) Get(_ context.Context, recordID uuid.UUID) (*recordDomain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[recordID]
	if !ok {
		return nil, recordDomain.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *memoryRecordRepository) List(_ context.Context, _, _ int) ([]*recordDomain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*recordDomain.Record, 0, len(m.records))
	for _, record := range m.records {
		copied := *record
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryRecordRepository) ListByState(
	_ context.Context,
	state recordDomain.AnonymizationState,
) ([]*recordDomain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*recordDomain.Record
	for _, record := range m.records {
		if record.AnonymizationState == state {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryRecordRepository) Update(_ context.Context, record *recordDomain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return recordDomain.ErrRecordNotFound
	}
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *memoryRecordRepository) Delete(_ context.Context, recordID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[recordID]; !ok {
		return recordDomain.ErrRecordNotFound
	}
	delete(m.records, recordID)
	return nil
}

func (m *memoryRecordRepository) MaxPseudonymSeq(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var maxSeq int64
	for _, record := range m.records {
		if record.PseudonymSeq != nil && *record.PseudonymSeq > maxSeq {
			maxSeq = *record.PseudonymSeq
		}
	}
	return maxSeq, nil
}

// fakeTxManager runs the function without a real transaction.
type fakeTxManager struct{}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeFieldCipher is a reversible stand-in for the real cipher.
type fakeFieldCipher struct {
	encryptErr error
	decryptErr error
}

func (f *fakeFieldCipher) EncryptField(plaintext string) (string, error) {
	if f.encryptErr != nil {
		return "", f.encryptErr
	}
	return "enc:" + plaintext, nil
}

func (f *fakeFieldCipher) DecryptField(ciphertext string) (string, error) {
	if f.decryptErr != nil {
		return "", f.decryptErr
	}
	plaintext, ok := strings.CutPrefix(ciphertext, "enc:")
	if !ok {
		return "", fmt.Errorf("%w: bad ciphertext", cryptoDomain.ErrDecryptionFailed)
	}
	return plaintext, nil
}
