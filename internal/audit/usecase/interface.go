package usecase

import (
	"context"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
)

// AuditRepository persists audit entries. The log is append-only: there is
// no update or delete operation by design of the schema.
type AuditRepository interface {
	Create(ctx context.Context, entry *auditDomain.AuditEntry) error
	List(ctx context.Context, filter *auditDomain.ListFilter) ([]*auditDomain.AuditEntry, error)
	ListAllAscending(ctx context.Context) ([]*auditDomain.AuditEntry, error)
}

// VerificationReport summarizes an offline signature verification pass over
// the whole audit log.
type VerificationReport struct {
	Checked     int
	InvalidSeqs []int64
}

// AuditUseCase signs and records audit entries and serves queries over them.
type AuditUseCase interface {
	Record(ctx context.Context, entry *auditDomain.AuditEntry) error
	List(ctx context.Context, filter *auditDomain.ListFilter) ([]*auditDomain.AuditEntry, error)
	VerifyAll(ctx context.Context) (*VerificationReport, error)
}
