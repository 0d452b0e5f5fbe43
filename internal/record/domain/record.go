// Package domain defines the health record domain model. Identifying fields
// (name, contact, diagnosis) are encrypted at rest and only ever handled in
// plaintext inside gateway operations; the anonymized projection and status
// metadata are stored in the clear.
package domain

import (
	"time"

	"github.com/google/uuid"

	validation "github.com/jellydator/validation"
)

// AnonymizationState tracks whether a record's anonymized projection has
// been computed. State only moves forward: raw to anonymized, never back.
type AnonymizationState string

const (
	// StateRaw means no anonymized projection exists yet.
	StateRaw AnonymizationState = "raw"

	// StateAnonymized means the pseudonym and masked contact are assigned.
	StateAnonymized AnonymizationState = "anonymized"
)

// Record represents a stored health record. The Encrypted* fields hold
// versioned ciphertext produced by the field cipher.
type Record struct {
	ID                 uuid.UUID
	EncryptedName      string
	EncryptedContact   string
	EncryptedDiagnosis string
	Status             string // Non-sensitive workflow metadata (e.g. "admitted")
	PseudonymSeq       *int64 // Assigned once at anonymization, stable afterwards
	AnonymizedName     string // "ANON_0042" once anonymized
	AnonymizedContact  string // "XXX-XXX-1234" once anonymized
	AnonymizationState AnonymizationState
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAnonymized reports whether the anonymized projection has been computed.
func (r *Record) IsAnonymized() bool {
	return r.AnonymizationState == StateAnonymized
}

// CreateRecordInput carries the plaintext fields for registering a record.
type CreateRecordInput struct {
	Name      string
	Contact   string
	Diagnosis string
	Status    string
}

// Validate checks the minimum lengths for identifying fields.
func (i CreateRecordInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&i.Contact, validation.Required, validation.Length(10, 50)),
		validation.Field(&i.Diagnosis, validation.Required, validation.Length(3, 2000)),
		validation.Field(&i.Status, validation.Length(0, 100)),
	)
}

// EditRecordInput carries a partial update. Nil fields are left unchanged.
// Non-nil sensitive fields require the full edit capability; a status-only
// update is the most an edit-status principal may submit.
type EditRecordInput struct {
	Name      *string
	Contact   *string
	Diagnosis *string
	Status    *string
}

// TouchesSensitiveFields reports whether the update modifies any
// identifying field rather than just workflow metadata.
func (i EditRecordInput) TouchesSensitiveFields() bool {
	return i.Name != nil || i.Contact != nil || i.Diagnosis != nil
}

// Validate checks the minimum lengths for any fields present.
func (i EditRecordInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Length(2, 200)),
		validation.Field(&i.Contact, validation.Length(10, 50)),
		validation.Field(&i.Diagnosis, validation.Length(3, 2000)),
		validation.Field(&i.Status, validation.Length(0, 100)),
	)
}
