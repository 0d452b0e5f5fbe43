// Package domain defines the role-shaped projections returned by gateway
// operations. What a caller sees is decided by a single projection table
// keyed on role, not by conditionals scattered through handlers.
package domain

import (
	"time"

	"github.com/google/uuid"

	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

// AdminRecordView is the full projection: decrypted identifying fields with
// the anonymized projection side by side.
type AdminRecordView struct {
	ID                 uuid.UUID                       `json:"id"`
	Name               string                          `json:"name"`
	Contact            string                          `json:"contact"`
	Diagnosis          string                          `json:"diagnosis"`
	Status             string                          `json:"status"`
	AnonymizedName     string                          `json:"anonymized_name,omitempty"`
	AnonymizedContact  string                          `json:"anonymized_contact,omitempty"`
	AnonymizationState recordDomain.AnonymizationState `json:"anonymization_state"`
	CreatedAt          time.Time                       `json:"created_at"`
	UpdatedAt          time.Time                       `json:"updated_at"`
}

// ClinicianRecordView is the anonymized projection. Diagnosis is not a
// field of this type at all: it is excluded from the view, not nulled.
type ClinicianRecordView struct {
	ID                uuid.UUID `json:"id"`
	AnonymizedName    string    `json:"anonymized_name"`
	AnonymizedContact string    `json:"anonymized_contact"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// RecordAck is the non-data acknowledgment returned to write-only roles:
// record existence and workflow status, never field values.
type RecordAck struct {
	ID                 uuid.UUID                       `json:"id"`
	Status             string                          `json:"status"`
	AnonymizationState recordDomain.AnonymizationState `json:"anonymization_state"`
}

// RecordListView carries the list projection for exactly one role. The
// populated slice depends on the caller's role.
type RecordListView struct {
	Admin     []*AdminRecordView
	Clinician []*ClinicianRecordView
}
