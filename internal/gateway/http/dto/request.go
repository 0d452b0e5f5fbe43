// Package dto provides data transfer objects for gateway HTTP request and
// response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Secret, validation.Required, validation.Length(1, 200)),
	)
}

// ToInput converts the request into the domain login input.
func (r *LoginRequest) ToInput() *authDomain.LoginInput {
	return &authDomain.LoginInput{Username: r.Username, Secret: r.Secret}
}

// CreateRecordRequest carries the plaintext fields for a new record.
// Field-level validation happens in the domain input.
type CreateRecordRequest struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Diagnosis string `json:"diagnosis"`
	Status    string `json:"status"`
}

// ToInput converts the request into the domain create input.
func (r *CreateRecordRequest) ToInput() *recordDomain.CreateRecordInput {
	return &recordDomain.CreateRecordInput{
		Name:      r.Name,
		Contact:   r.Contact,
		Diagnosis: r.Diagnosis,
		Status:    r.Status,
	}
}

// EditRecordRequest carries a partial record update. Absent fields are
// left unchanged.
type EditRecordRequest struct {
	Name      *string `json:"name"`
	Contact   *string `json:"contact"`
	Diagnosis *string `json:"diagnosis"`
	Status    *string `json:"status"`
}

// ToInput converts the request into the domain edit input.
func (r *EditRecordRequest) ToInput() *recordDomain.EditRecordInput {
	return &recordDomain.EditRecordInput{
		Name:      r.Name,
		Contact:   r.Contact,
		Diagnosis: r.Diagnosis,
		Status:    r.Status,
	}
}

// SetConsentRequest carries a consent update for a record.
type SetConsentRequest struct {
	ConsentGiven  bool `json:"consent_given"`
	RetentionDays int  `json:"retention_days"`
}

// Validate checks if the consent request is valid.
func (r *SetConsentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RetentionDays, validation.Min(0), validation.Max(36500)),
	)
}

// ToInput converts the request into the domain consent input for the
// given record.
func (r *SetConsentRequest) ToInput(recordID uuid.UUID) *consentDomain.SetConsentInput {
	return &consentDomain.SetConsentInput{
		RecordID:      recordID,
		ConsentGiven:  r.ConsentGiven,
		RetentionDays: r.RetentionDays,
	}
}
