package domain

import (
	"github.com/allisson/medgate/internal/errors"
)

// Audit log errors.
var (
	// ErrSignatureInvalid indicates an audit entry failed signature
	// verification, meaning the stored entry was altered after signing.
	ErrSignatureInvalid = errors.Wrap(errors.ErrInvalidInput, "audit entry signature is invalid")

	// ErrSinkUnavailable indicates the audit store could not accept an
	// entry. Gateway operations degrade to logging the entry instead of
	// failing the caller; audit queries surface it as a 503.
	ErrSinkUnavailable = errors.Wrap(errors.ErrUnavailable, "audit sink unavailable")
)
