// Package domain defines authentication and authorization domain models.
// Implements role-based access control with a fixed role set and a static
// role to capability mapping. Roles form a closed enum: an unknown role is
// rejected at parse time and carries no capabilities.
package domain

import (
	"fmt"
	"slices"
)

// Role identifies one of the fixed principal roles.
type Role string

const (
	// RoleAdmin has full access to raw data and every operation.
	RoleAdmin Role = "admin"

	// RoleClinician can read anonymized record projections only.
	RoleClinician Role = "clinician"

	// RoleFrontDesk can register records and update non-sensitive metadata.
	RoleFrontDesk Role = "front_desk"
)

// ParseRole converts a string into a Role. Returns ErrInvalidRole for any
// value outside the fixed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleClinician, RoleFrontDesk:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Capability defines the operations that can be performed on protected resources.
type Capability string

const (
	// ReadRawCapability allows reading raw identifying record fields.
	ReadRawCapability Capability = "records:read-raw"

	// ReadAnonymizedCapability allows reading anonymized record projections.
	ReadAnonymizedCapability Capability = "records:read-anonymized"

	// CreateRecordCapability allows registering new records.
	CreateRecordCapability Capability = "records:create"

	// EditRecordCapability allows modifying sensitive record fields.
	EditRecordCapability Capability = "records:edit"

	// EditStatusCapability allows modifying the non-sensitive status field only.
	EditStatusCapability Capability = "records:edit-status"

	// DeleteRecordCapability allows removing records.
	DeleteRecordCapability Capability = "records:delete"

	// AnonymizeCapability allows running the batch anonymization pass.
	AnonymizeCapability Capability = "records:anonymize"

	// ReadAuditCapability allows querying the audit log.
	ReadAuditCapability Capability = "audit-logs:read"

	// ManageConsentCapability allows updating consent and retention settings.
	ManageConsentCapability Capability = "consent:manage"
)

// Capabilities returns the capability set granted to the role. The mapping
// is static: roles cannot be granted or stripped capabilities at runtime.
// An unknown role gets nothing.
func (r Role) Capabilities() []Capability {
	switch r {
	case RoleAdmin:
		return []Capability{
			ReadRawCapability,
			ReadAnonymizedCapability,
			CreateRecordCapability,
			EditRecordCapability,
			EditStatusCapability,
			DeleteRecordCapability,
			AnonymizeCapability,
			ReadAuditCapability,
			ManageConsentCapability,
		}
	case RoleClinician:
		return []Capability{
			ReadAnonymizedCapability,
		}
	case RoleFrontDesk:
		return []Capability{
			CreateRecordCapability,
			EditStatusCapability,
		}
	default:
		return nil
	}
}

// Can checks if the role's capability set includes the given capability.
func (r Role) Can(capability Capability) bool {
	return slices.Contains(r.Capabilities(), capability)
}
