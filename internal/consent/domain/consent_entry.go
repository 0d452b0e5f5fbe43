package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConsentEntry holds per-record consent and retention metadata. Each record
// has at most one entry. Purge eligibility is advisory: nothing here deletes
// the record itself.
type ConsentEntry struct {
	RecordID      uuid.UUID `json:"record_id"`
	ConsentGiven  bool      `json:"consent_given"`
	ConsentDate   time.Time `json:"consent_date"`
	RetentionDays int       `json:"retention_days"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsPurgeEligible reports whether the retention window has elapsed at the
// given instant.
func (c *ConsentEntry) IsPurgeEligible(now time.Time) bool {
	retention := time.Duration(c.RetentionDays) * 24 * time.Hour
	return now.Sub(c.ConsentDate) > retention
}

// SetConsentInput is the input for recording or updating consent.
type SetConsentInput struct {
	RecordID      uuid.UUID `json:"record_id"`
	ConsentGiven  bool      `json:"consent_given"`
	RetentionDays int       `json:"retention_days"`
}
