package domain

import (
	"github.com/allisson/medgate/internal/errors"
)

// Record errors.
var (
	// ErrRecordNotFound indicates a record with the specified ID was not found.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")
)
