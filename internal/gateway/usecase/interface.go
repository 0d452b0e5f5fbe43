// Package usecase implements the access gateway: the single entry point for
// every operation on the record domain. Each request is authenticated,
// checked against the caller's capability set, executed, and audited with
// exactly one entry per decision, allowed or denied.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	authDomain "github.com/allisson/medgate/internal/auth/domain"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	gatewayDomain "github.com/allisson/medgate/internal/gateway/domain"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

// RecordRepository defines persistence operations for health records.
type RecordRepository interface {
	Create(ctx context.Context, record *recordDomain.Record) error
	Get(ctx context.Context, recordID uuid.UUID) (*recordDomain.Record, error)
	List(ctx context.Context, offset, limit int) ([]*recordDomain.Record, error)
	ListByState(ctx context.Context, state recordDomain.AnonymizationState) ([]*recordDomain.Record, error)
	Update(ctx context.Context, record *recordDomain.Record) error
	Delete(ctx context.Context, recordID uuid.UUID) error
	MaxPseudonymSeq(ctx context.Context) (int64, error)
}

// Gateway is the façade in front of records, consent, and the audit log.
//
// Every method that takes an actor decides allow or deny from the actor's
// role capabilities before touching the store, and writes one audit entry
// for the decision. If the audit sink is down the entry goes to the
// process log instead and the operation still completes: audit sink
// unavailability must not turn into a denial of service for legitimate
// callers.
type Gateway interface {
	// Login verifies credentials and issues a session token. Both outcomes
	// are audited; failures record the attempted username with the
	// unauthenticated role sentinel.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Logout revokes the caller's session.
	Logout(ctx context.Context, actor *authDomain.User, tokenHash string) error

	// Authenticate resolves a session token hash to its user. Failures are
	// audited as denied authenticate actions.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error)

	// ListRecords returns the role-shaped list projection: decrypted raw
	// fields plus the anonymized projection for admins, the anonymized
	// view only for clinicians. Roles without a read capability are denied.
	ListRecords(ctx context.Context, actor *authDomain.User, offset, limit int) (*gatewayDomain.RecordListView, error)

	// CreateRecord encrypts the identifying fields and stores the record
	// together with its initial consent entry in one transaction.
	CreateRecord(ctx context.Context, actor *authDomain.User, input *recordDomain.CreateRecordInput) (*gatewayDomain.RecordAck, error)

	// EditRecord applies a partial update. Editing identifying fields
	// requires the full edit capability; a status-only principal touching
	// them is denied and the attempt audited.
	EditRecord(ctx context.Context, actor *authDomain.User, recordID uuid.UUID, input *recordDomain.EditRecordInput) (*gatewayDomain.RecordAck, error)

	// DeleteRecord removes a record and its consent entry.
	DeleteRecord(ctx context.Context, actor *authDomain.User, recordID uuid.UUID) error

	// AnonymizeAll assigns pseudonyms and masked contacts to every record
	// still raw, skipping records already anonymized, and returns the
	// number processed. One audit entry summarizes the batch.
	AnonymizeAll(ctx context.Context, actor *authDomain.User) (int, error)

	// QueryAuditLog returns audit entries newest first.
	QueryAuditLog(ctx context.Context, actor *authDomain.User, filter *auditDomain.ListFilter) ([]*auditDomain.AuditEntry, error)

	// SetConsent records or updates consent and retention for a record.
	SetConsent(ctx context.Context, actor *authDomain.User, input *consentDomain.SetConsentInput) (*consentDomain.ConsentEntry, error)

	// PurgeExpired deletes records whose consent retention window has
	// elapsed. With dryRun set it only reports how many are eligible.
	PurgeExpired(ctx context.Context, actor *authDomain.User, now time.Time, dryRun bool) (int, error)
}
