package dto

import (
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	authDomain "github.com/allisson/medgate/internal/auth/domain"
	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	gatewayDomain "github.com/allisson/medgate/internal/gateway/domain"
)

// LoginResponse carries the issued session token. The plain token appears
// here exactly once; only its hash is stored server-side.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapLoginOutputToResponse converts a domain login output to a response.
func MapLoginOutputToResponse(output *authDomain.LoginOutput) *LoginResponse {
	return &LoginResponse{Token: output.PlainToken, ExpiresAt: output.ExpiresAt}
}

// RecordAckResponse acknowledges a write without exposing field values.
type RecordAckResponse struct {
	ID                 uuid.UUID `json:"id"`
	Status             string    `json:"status"`
	AnonymizationState string    `json:"anonymization_state"`
}

// MapRecordAckToResponse converts a domain acknowledgment to a response.
func MapRecordAckToResponse(ack *gatewayDomain.RecordAck) *RecordAckResponse {
	return &RecordAckResponse{
		ID:                 ack.ID,
		Status:             ack.Status,
		AnonymizationState: string(ack.AnonymizationState),
	}
}

// ListRecordsResponse carries the role-shaped record list. The element
// shape depends on the caller's role, so Records is left loosely typed.
type ListRecordsResponse struct {
	Records any `json:"records"`
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
}

// MapRecordListViewToResponse converts the role-shaped list projection to
// a response.
func MapRecordListViewToResponse(view *gatewayDomain.RecordListView, offset, limit int) *ListRecordsResponse {
	response := &ListRecordsResponse{Offset: offset, Limit: limit}
	if view.Admin != nil {
		response.Records = view.Admin
	} else {
		response.Records = view.Clinician
	}
	return response
}

// AuditEntryResponse is the wire form of one audit entry.
type AuditEntryResponse struct {
	SequenceID        int64     `json:"sequence_id"`
	ActorID           uuid.UUID `json:"actor_id"`
	AttemptedUsername string    `json:"attempted_username"`
	Role              string    `json:"role"`
	Action            string    `json:"action"`
	Outcome           string    `json:"outcome"`
	Detail            string    `json:"detail"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListAuditEntriesResponse carries a page of audit entries, newest first.
type ListAuditEntriesResponse struct {
	Entries []*AuditEntryResponse `json:"entries"`
	Offset  int                   `json:"offset"`
	Limit   int                   `json:"limit"`
}

// MapAuditEntriesToResponse converts audit entries to a response page. The
// signature stays server-side: it is verified offline, not served.
func MapAuditEntriesToResponse(entries []*auditDomain.AuditEntry, offset, limit int) *ListAuditEntriesResponse {
	response := &ListAuditEntriesResponse{
		Entries: make([]*AuditEntryResponse, 0, len(entries)),
		Offset:  offset,
		Limit:   limit,
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, &AuditEntryResponse{
			SequenceID:        entry.SequenceID,
			ActorID:           entry.ActorID,
			AttemptedUsername: entry.AttemptedUsername,
			Role:              entry.Role,
			Action:            string(entry.Action),
			Outcome:           string(entry.Outcome),
			Detail:            entry.Detail,
			CreatedAt:         entry.CreatedAt,
		})
	}
	return response
}

// ConsentResponse is the wire form of a consent entry.
type ConsentResponse struct {
	RecordID      uuid.UUID `json:"record_id"`
	ConsentGiven  bool      `json:"consent_given"`
	ConsentDate   time.Time `json:"consent_date"`
	RetentionDays int       `json:"retention_days"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MapConsentEntryToResponse converts a consent entry to a response.
func MapConsentEntryToResponse(entry *consentDomain.ConsentEntry) *ConsentResponse {
	return &ConsentResponse{
		RecordID:      entry.RecordID,
		ConsentGiven:  entry.ConsentGiven,
		ConsentDate:   entry.ConsentDate,
		RetentionDays: entry.RetentionDays,
		UpdatedAt:     entry.UpdatedAt,
	}
}
