package domain

import (
	"github.com/allisson/medgate/internal/errors"
)

// Consent errors.
var (
	// ErrConsentNotFound indicates no consent entry exists for the record.
	ErrConsentNotFound = errors.Wrap(errors.ErrNotFound, "consent entry not found")
)
