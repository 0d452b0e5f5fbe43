package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	auditUseCase "github.com/allisson/medgate/internal/audit/usecase"
	authDomain "github.com/allisson/medgate/internal/auth/domain"
	authUseCase "github.com/allisson/medgate/internal/auth/usecase"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	consentUseCase "github.com/allisson/medgate/internal/consent/usecase"
	cryptoService "github.com/allisson/medgate/internal/crypto/service"
	"github.com/allisson/medgate/internal/database"
	apperrors "github.com/allisson/medgate/internal/errors"
	gatewayDomain "github.com/allisson/medgate/internal/gateway/domain"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
	recordService "github.com/allisson/medgate/internal/record/service"
)

type gateway struct {
	authUseCase    authUseCase.AuthUseCase
	auditUseCase   auditUseCase.AuditUseCase
	consentUseCase consentUseCase.ConsentUseCase
	recordRepo     RecordRepository
	fieldCipher    cryptoService.FieldCipher
	anonymizer     recordService.Anonymizer
	txManager      database.TxManager
	logger         *slog.Logger

	// Serializes anonymization batches. Two overlapping runs would both
	// list the same raw records and assign each a second pseudonym.
	anonymizeMu sync.Mutex
}

// audit appends one entry for a decision. A failing sink is logged to the
// process log and swallowed so the caller's operation still completes.
func (g *gateway) audit(ctx context.Context, entry *auditDomain.AuditEntry) {
	if err := g.auditUseCase.Record(ctx, entry); err != nil {
		g.logger.Error("audit sink unavailable, entry recorded in process log only",
			"actor_id", entry.ActorID,
			"attempted_username", entry.AttemptedUsername,
			"role", entry.Role,
			"action", entry.Action,
			"outcome", entry.Outcome,
			"detail", entry.Detail,
			"error", err,
		)
	}
}

func actorEntry(actor *authDomain.User, action auditDomain.Action, outcome auditDomain.Outcome, detail string) *auditDomain.AuditEntry {
	return &auditDomain.AuditEntry{
		ActorID:           actor.ID,
		AttemptedUsername: actor.Username,
		Role:              string(actor.Role),
		Action:            action,
		Outcome:           outcome,
		Detail:            detail,
	}
}

func unauthenticatedEntry(attemptedUsername string, action auditDomain.Action, detail string) *auditDomain.AuditEntry {
	return &auditDomain.AuditEntry{
		ActorID:           uuid.Nil,
		AttemptedUsername: attemptedUsername,
		Role:              auditDomain.RoleUnauthenticated,
		Action:            action,
		Outcome:           auditDomain.OutcomeDenied,
		Detail:            detail,
	}
}

// deny audits the denial and returns ErrDenied. Called before any store
// access for the operation itself.
func (g *gateway) deny(ctx context.Context, actor *authDomain.User, action auditDomain.Action, capability authDomain.Capability) error {
	detail := fmt.Sprintf("missing capability %s", capability)
	g.audit(ctx, actorEntry(actor, action, auditDomain.OutcomeDenied, detail))
	return apperrors.Wrap(gatewayDomain.ErrDenied, detail)
}

// fail audits an authorized operation whose execution did not complete.
// The capability decision stays outcome allowed; the failure is carried
// in the detail, so the log holds one entry for the attempt and the
// error goes back to the caller.
func (g *gateway) fail(ctx context.Context, actor *authDomain.User, action auditDomain.Action, detail string) {
	g.audit(ctx, actorEntry(actor, action, auditDomain.OutcomeAllowed, detail))
}

// Login verifies credentials and issues a session token.
func (g *gateway) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error) {
	output, err := g.authUseCase.Login(ctx, input)
	if err != nil {
		g.audit(ctx, unauthenticatedEntry(input.Username, auditDomain.ActionLogin, "login failed"))
		return nil, err
	}

	g.audit(ctx, actorEntry(output.User, auditDomain.ActionLogin, auditDomain.OutcomeAllowed, "session issued"))
	return output, nil
}

// Logout revokes the caller's session.
func (g *gateway) Logout(ctx context.Context, actor *authDomain.User, tokenHash string) error {
	if err := g.authUseCase.Logout(ctx, tokenHash); err != nil {
		g.fail(ctx, actor, auditDomain.ActionLogout, "session not revoked")
		return err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionLogout, auditDomain.OutcomeAllowed, "session revoked"))
	return nil
}

// Authenticate resolves a session token hash to its user.
func (g *gateway) Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error) {
	user, err := g.authUseCase.Authenticate(ctx, tokenHash)
	if err != nil {
		g.audit(ctx, unauthenticatedEntry("", auditDomain.ActionAuthenticate, "invalid session token"))
		return nil, err
	}
	return user, nil
}

// ListRecords returns the role-shaped list projection.
func (g *gateway) ListRecords(
	ctx context.Context,
	actor *authDomain.User,
	offset, limit int,
) (*gatewayDomain.RecordListView, error) {
	switch {
	case actor.Role.Can(authDomain.ReadRawCapability):
		return g.listRawRecords(ctx, actor, offset, limit)
	case actor.Role.Can(authDomain.ReadAnonymizedCapability):
		return g.listAnonymizedRecords(ctx, actor)
	default:
		return nil, g.deny(ctx, actor, auditDomain.ActionRecordList, authDomain.ReadAnonymizedCapability)
	}
}

func (g *gateway) listRawRecords(
	ctx context.Context,
	actor *authDomain.User,
	offset, limit int,
) (*gatewayDomain.RecordListView, error) {
	records, err := g.recordRepo.List(ctx, offset, limit)
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordList, "raw list failed: store error")
		return nil, err
	}

	views := make([]*gatewayDomain.AdminRecordView, 0, len(records))
	for _, record := range records {
		view, err := g.adminView(record)
		if err != nil {
			g.fail(ctx, actor, auditDomain.ActionRecordList,
				fmt.Sprintf("raw list failed on record %s: decrypt error", record.ID))
			return nil, err
		}
		views = append(views, view)
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionRecordList, auditDomain.OutcomeAllowed,
		fmt.Sprintf("raw view, %d records", len(views))))
	return &gatewayDomain.RecordListView{Admin: views}, nil
}

func (g *gateway) listAnonymizedRecords(
	ctx context.Context,
	actor *authDomain.User,
) (*gatewayDomain.RecordListView, error) {
	records, err := g.recordRepo.ListByState(ctx, recordDomain.StateAnonymized)
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordList, "anonymized list failed: store error")
		return nil, err
	}

	views := make([]*gatewayDomain.ClinicianRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, &gatewayDomain.ClinicianRecordView{
			ID:                record.ID,
			AnonymizedName:    record.AnonymizedName,
			AnonymizedContact: record.AnonymizedContact,
			Status:            record.Status,
			CreatedAt:         record.CreatedAt,
		})
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionRecordList, auditDomain.OutcomeAllowed,
		fmt.Sprintf("anonymized view, %d records", len(views))))
	return &gatewayDomain.RecordListView{Clinician: views}, nil
}

func (g *gateway) adminView(record *recordDomain.Record) (*gatewayDomain.AdminRecordView, error) {
	name, err := g.fieldCipher.DecryptField(record.EncryptedName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt name")
	}
	contact, err := g.fieldCipher.DecryptField(record.EncryptedContact)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt contact")
	}
	diagnosis, err := g.fieldCipher.DecryptField(record.EncryptedDiagnosis)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt diagnosis")
	}

	return &gatewayDomain.AdminRecordView{
		ID:                 record.ID,
		Name:               name,
		Contact:            contact,
		Diagnosis:          diagnosis,
		Status:             record.Status,
		AnonymizedName:     record.AnonymizedName,
		AnonymizedContact:  record.AnonymizedContact,
		AnonymizationState: record.AnonymizationState,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
	}, nil
}

// CreateRecord encrypts identifying fields and stores the record with its
// initial consent entry in one transaction.
func (g *gateway) CreateRecord(
	ctx context.Context,
	actor *authDomain.User,
	input *recordDomain.CreateRecordInput,
) (*gatewayDomain.RecordAck, error) {
	if !actor.Role.Can(authDomain.CreateRecordCapability) {
		return nil, g.deny(ctx, actor, auditDomain.ActionRecordCreate, authDomain.CreateRecordCapability)
	}

	if err := input.Validate(); err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordCreate, "create rejected: invalid input")
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	record, err := g.encryptNewRecord(input)
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordCreate, "create failed: encryption error")
		return nil, err
	}

	err = g.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := g.recordRepo.Create(ctx, record); err != nil {
			return err
		}
		// Consent is collected as part of intake; retention starts at the
		// configured default and can be adjusted later via SetConsent.
		_, err := g.consentUseCase.Set(ctx, &consentDomain.SetConsentInput{
			RecordID:     record.ID,
			ConsentGiven: true,
		})
		return err
	})
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordCreate, "create failed: store error")
		return nil, err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionRecordCreate, auditDomain.OutcomeAllowed,
		fmt.Sprintf("record %s created", record.ID)))
	return &gatewayDomain.RecordAck{
		ID:                 record.ID,
		Status:             record.Status,
		AnonymizationState: record.AnonymizationState,
	}, nil
}

func (g *gateway) encryptNewRecord(input *recordDomain.CreateRecordInput) (*recordDomain.Record, error) {
	encryptedName, err := g.fieldCipher.EncryptField(input.Name)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt name")
	}
	encryptedContact, err := g.fieldCipher.EncryptField(input.Contact)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt contact")
	}
	encryptedDiagnosis, err := g.fieldCipher.EncryptField(input.Diagnosis)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt diagnosis")
	}

	now := time.Now().UTC()
	return &recordDomain.Record{
		ID:                 uuid.Must(uuid.NewV7()),
		EncryptedName:      encryptedName,
		EncryptedContact:   encryptedContact,
		EncryptedDiagnosis: encryptedDiagnosis,
		Status:             input.Status,
		AnonymizationState: recordDomain.StateRaw,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// EditRecord applies a partial update under the caller's edit capability.
func (g *gateway) EditRecord(
	ctx context.Context,
	actor *authDomain.User,
	recordID uuid.UUID,
	input *recordDomain.EditRecordInput,
) (*gatewayDomain.RecordAck, error) {
	switch {
	case actor.Role.Can(authDomain.EditRecordCapability):
		// Full edit, identifying fields included.
	case actor.Role.Can(authDomain.EditStatusCapability):
		if input.TouchesSensitiveFields() {
			return nil, g.deny(ctx, actor, auditDomain.ActionRecordEdit, authDomain.EditRecordCapability)
		}
	default:
		return nil, g.deny(ctx, actor, auditDomain.ActionRecordEdit, authDomain.EditStatusCapability)
	}

	if err := input.Validate(); err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordEdit, "edit rejected: invalid input")
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	record, err := g.recordRepo.Get(ctx, recordID)
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordEdit,
			fmt.Sprintf("edit failed on record %s: load error", recordID))
		return nil, err
	}

	if err := g.applyEdit(record, input); err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordEdit,
			fmt.Sprintf("edit failed on record %s: encryption error", recordID))
		return nil, err
	}
	record.UpdatedAt = time.Now().UTC()

	if err := g.recordRepo.Update(ctx, record); err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordEdit,
			fmt.Sprintf("edit failed on record %s: store error", recordID))
		return nil, err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionRecordEdit, auditDomain.OutcomeAllowed,
		fmt.Sprintf("record %s edited", record.ID)))
	return &gatewayDomain.RecordAck{
		ID:                 record.ID,
		Status:             record.Status,
		AnonymizationState: record.AnonymizationState,
	}, nil
}

func (g *gateway) applyEdit(record *recordDomain.Record, input *recordDomain.EditRecordInput) error {
	if input.Name != nil {
		encrypted, err := g.fieldCipher.EncryptField(*input.Name)
		if err != nil {
			return apperrors.Wrap(err, "failed to encrypt name")
		}
		record.EncryptedName = encrypted
	}
	if input.Contact != nil {
		encrypted, err := g.fieldCipher.EncryptField(*input.Contact)
		if err != nil {
			return apperrors.Wrap(err, "failed to encrypt contact")
		}
		record.EncryptedContact = encrypted
	}
	if input.Diagnosis != nil {
		encrypted, err := g.fieldCipher.EncryptField(*input.Diagnosis)
		if err != nil {
			return apperrors.Wrap(err, "failed to encrypt diagnosis")
		}
		record.EncryptedDiagnosis = encrypted
	}
	if input.Status != nil {
		record.Status = *input.Status
	}
	return nil
}

// DeleteRecord removes a record and its consent entry in one transaction.
func (g *gateway) DeleteRecord(ctx context.Context, actor *authDomain.User, recordID uuid.UUID) error {
	if !actor.Role.Can(authDomain.DeleteRecordCapability) {
		return g.deny(ctx, actor, auditDomain.ActionRecordDelete, authDomain.DeleteRecordCapability)
	}

	err := g.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := g.recordRepo.Delete(ctx, recordID); err != nil {
			return err
		}
		return g.consentUseCase.Remove(ctx, recordID)
	})
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordDelete,
			fmt.Sprintf("delete failed on record %s: store error", recordID))
		return err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionRecordDelete, auditDomain.OutcomeAllowed,
		fmt.Sprintf("record %s deleted", recordID)))
	return nil
}

// AnonymizeAll assigns pseudonyms to every record still raw. Records
// already anonymized keep their existing pseudonym: running the batch
// twice is a no-op the second time.
func (g *gateway) AnonymizeAll(ctx context.Context, actor *authDomain.User) (int, error) {
	if !actor.Role.Can(authDomain.AnonymizeCapability) {
		return 0, g.deny(ctx, actor, auditDomain.ActionRecordAnonymize, authDomain.AnonymizeCapability)
	}

	g.anonymizeMu.Lock()
	defer g.anonymizeMu.Unlock()

	count := 0
	err := g.txManager.WithTx(ctx, func(ctx context.Context) error {
		records, err := g.recordRepo.ListByState(ctx, recordDomain.StateRaw)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, record := range records {
			contact, err := g.fieldCipher.DecryptField(record.EncryptedContact)
			if err != nil {
				return apperrors.Wrapf(err, "failed to decrypt contact for record %s", record.ID)
			}

			seq, pseudonym := g.anonymizer.NextPseudonym()
			record.PseudonymSeq = &seq
			record.AnonymizedName = pseudonym
			record.AnonymizedContact = g.anonymizer.MaskContact(contact)
			record.AnonymizationState = recordDomain.StateAnonymized
			record.UpdatedAt = now

			if err := g.recordRepo.Update(ctx, record); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionRecordAnonymize, "anonymization batch failed")
		return 0, err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionRecordAnonymize, auditDomain.OutcomeAllowed,
		fmt.Sprintf("anonymized %d records", count)))
	return count, nil
}

// QueryAuditLog returns audit entries newest first. The query itself is
// audited after it executes so the entry does not appear in its own result.
func (g *gateway) QueryAuditLog(
	ctx context.Context,
	actor *authDomain.User,
	filter *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	if !actor.Role.Can(authDomain.ReadAuditCapability) {
		return nil, g.deny(ctx, actor, auditDomain.ActionAuditQuery, authDomain.ReadAuditCapability)
	}

	entries, err := g.auditUseCase.List(ctx, filter)
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionAuditQuery, "audit query failed: sink error")
		return nil, err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionAuditQuery, auditDomain.OutcomeAllowed,
		fmt.Sprintf("%d entries returned", len(entries))))
	return entries, nil
}

// SetConsent records or updates consent and retention for a record. The
// record must exist.
func (g *gateway) SetConsent(
	ctx context.Context,
	actor *authDomain.User,
	input *consentDomain.SetConsentInput,
) (*consentDomain.ConsentEntry, error) {
	if !actor.Role.Can(authDomain.ManageConsentCapability) {
		return nil, g.deny(ctx, actor, auditDomain.ActionConsentUpdate, authDomain.ManageConsentCapability)
	}

	if _, err := g.recordRepo.Get(ctx, input.RecordID); err != nil {
		g.fail(ctx, actor, auditDomain.ActionConsentUpdate,
			fmt.Sprintf("consent update failed on record %s: load error", input.RecordID))
		return nil, err
	}

	entry, err := g.consentUseCase.Set(ctx, input)
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionConsentUpdate,
			fmt.Sprintf("consent update failed on record %s: store error", input.RecordID))
		return nil, err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionConsentUpdate, auditDomain.OutcomeAllowed,
		fmt.Sprintf("consent for record %s: given=%t retention=%dd", entry.RecordID, entry.ConsentGiven, entry.RetentionDays)))
	return entry, nil
}

// PurgeExpired deletes records whose retention window has elapsed. Purge
// eligibility is advisory until this explicit operator action runs it.
func (g *gateway) PurgeExpired(
	ctx context.Context,
	actor *authDomain.User,
	now time.Time,
	dryRun bool,
) (int, error) {
	if !actor.Role.Can(authDomain.DeleteRecordCapability) {
		return 0, g.deny(ctx, actor, auditDomain.ActionPurgeExpired, authDomain.DeleteRecordCapability)
	}

	eligible, err := g.consentUseCase.ListPurgeEligible(ctx, now)
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionPurgeExpired, "purge failed: eligibility scan error")
		return 0, err
	}

	if dryRun {
		g.audit(ctx, actorEntry(actor, auditDomain.ActionPurgeExpired, auditDomain.OutcomeAllowed,
			fmt.Sprintf("dry run, %d records eligible", len(eligible))))
		return len(eligible), nil
	}

	purged := 0
	err = g.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, entry := range eligible {
			if err := g.recordRepo.Delete(ctx, entry.RecordID); err != nil {
				// The consent entry can outlive its record if a delete and
				// a purge race; skip rather than abort the batch.
				if apperrors.Is(err, recordDomain.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if err := g.consentUseCase.Remove(ctx, entry.RecordID); err != nil {
				return err
			}
			purged++
		}
		return nil
	})
	if err != nil {
		g.fail(ctx, actor, auditDomain.ActionPurgeExpired, "purge batch failed: store error")
		return 0, err
	}

	g.audit(ctx, actorEntry(actor, auditDomain.ActionPurgeExpired, auditDomain.OutcomeAllowed,
		fmt.Sprintf("purged %d records", purged)))
	return purged, nil
}

// NewGateway creates the access gateway.
func NewGateway(
	authUC authUseCase.AuthUseCase,
	auditUC auditUseCase.AuditUseCase,
	consentUC consentUseCase.ConsentUseCase,
	recordRepo RecordRepository,
	fieldCipher cryptoService.FieldCipher,
	anonymizer recordService.Anonymizer,
	txManager database.TxManager,
	logger *slog.Logger,
) Gateway {
	return &gateway{
		authUseCase:    authUC,
		auditUseCase:   auditUC,
		consentUseCase: consentUC,
		recordRepo:     recordRepo,
		fieldCipher:    fieldCipher,
		anonymizer:     anonymizer,
		txManager:      txManager,
		logger:         logger,
	}
}
