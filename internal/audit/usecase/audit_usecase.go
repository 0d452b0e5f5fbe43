package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	auditService "github.com/allisson/medgate/internal/audit/service"
	cryptoDomain "github.com/allisson/medgate/internal/crypto/domain"
	apperrors "github.com/allisson/medgate/internal/errors"
)

type auditUseCase struct {
	repository AuditRepository
	signer     auditService.AuditSigner
	keychain   *cryptoDomain.MasterKeyChain
}

// Record signs the entry with the active master key and appends it to the
// log. CreatedAt is set here when the caller left it zero so the signature
// always covers the stored timestamp.
func (a *auditUseCase) Record(ctx context.Context, entry *auditDomain.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	masterKey, ok := a.keychain.Active()
	if !ok {
		return apperrors.Wrap(cryptoDomain.ErrKeyUnavailable, "failed to sign audit entry")
	}

	signature, err := a.signer.Sign(masterKey.Key, entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit entry")
	}
	entry.Signature = signature

	if err := a.repository.Create(ctx, entry); err != nil {
		return apperrors.Wrap(auditDomain.ErrSinkUnavailable, err.Error())
	}

	return nil
}

// List retrieves audit entries matching the filter, newest first.
func (a *auditUseCase) List(
	ctx context.Context,
	filter *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	return a.repository.List(ctx, filter)
}

// VerifyAll walks the whole log in sequence order and re-verifies every
// entry's signature against all known master keys. An entry counts as valid
// if any key in the chain verifies it, so rotated keys keep old entries
// checkable.
func (a *auditUseCase) VerifyAll(ctx context.Context) (*VerificationReport, error) {
	entries, err := a.repository.ListAllAscending(ctx)
	if err != nil {
		return nil, err
	}

	report := &VerificationReport{}
	for _, entry := range entries {
		report.Checked++
		if !a.verifiesWithAnyKey(entry) {
			report.InvalidSeqs = append(report.InvalidSeqs, entry.SequenceID)
		}
	}

	return report, nil
}

func (a *auditUseCase) verifiesWithAnyKey(entry *auditDomain.AuditEntry) bool {
	verified := false
	a.keychain.Range(func(masterKey *cryptoDomain.MasterKey) bool {
		if err := a.signer.Verify(masterKey.Key, entry); err == nil {
			verified = true
			return false
		}
		return true
	})
	return verified
}

// NewAuditUseCase creates a new audit use case.
func NewAuditUseCase(
	repository AuditRepository,
	signer auditService.AuditSigner,
	keychain *cryptoDomain.MasterKeyChain,
) AuditUseCase {
	return &auditUseCase{repository: repository, signer: signer, keychain: keychain}
}
