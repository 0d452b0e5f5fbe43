// Package domain defines the audit log domain model. The audit log is
// append-only: entries are inserted with a store-assigned sequence number
// and never updated or deleted through the application.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleUnauthenticated is recorded as the role for requests that failed
// authentication. It is deliberately not a member of the principal role
// set so failed attempts can never be confused with a real role.
const RoleUnauthenticated = "unauthenticated"

// Outcome is the authorization decision recorded for an operation.
type Outcome string

const (
	// OutcomeAllowed means the operation was authorized and attempted.
	OutcomeAllowed Outcome = "allowed"

	// OutcomeDenied means authentication or authorization rejected the request.
	OutcomeDenied Outcome = "denied"
)

// Action identifies the operation an audit entry describes.
type Action string

const (
	ActionLogin           Action = "login"
	ActionLogout          Action = "logout"
	ActionAuthenticate    Action = "authenticate"
	ActionRecordList      Action = "record_list"
	ActionRecordCreate    Action = "record_create"
	ActionRecordEdit      Action = "record_edit"
	ActionRecordDelete    Action = "record_delete"
	ActionRecordAnonymize Action = "record_anonymize"
	ActionAuditQuery      Action = "audit_query"
	ActionConsentUpdate   Action = "consent_update"
	ActionPurgeExpired    Action = "purge_expired"
)

// AuditEntry records a single access decision. SequenceID is assigned by
// the store's auto-increment on insert; it is the total order of the log.
//
// ActorID is uuid.Nil and Role is RoleUnauthenticated for failed
// authentication attempts; AttemptedUsername then preserves what the
// caller presented.
type AuditEntry struct {
	SequenceID        int64
	ActorID           uuid.UUID
	AttemptedUsername string
	Role              string
	Action            Action
	Outcome           Outcome
	Detail            string
	Signature         []byte
	CreatedAt         time.Time
}

// ListFilter narrows an audit log query. Nil fields match everything.
type ListFilter struct {
	ActorID *uuid.UUID
	Outcome *Outcome
	Offset  int
	Limit   int
}
