package domain

import (
	"github.com/allisson/medgate/internal/errors"
)

// Gateway errors.
var (
	// ErrDenied indicates the caller's role does not hold the capability
	// required for the operation. The denial is always audited before
	// this error is returned.
	ErrDenied = errors.Wrap(errors.ErrForbidden, "operation denied")
)
