// Package service provides the anonymization engine: stable pseudonym
// assignment and contact masking for record projections.
package service

import (
	"fmt"
	"strings"
	"sync"
)

// maskedContactFallback is returned when a contact has fewer than four
// digits to preserve.
const maskedContactFallback = "XXX-XXX-XXXX"

// Anonymizer assigns pseudonyms and masks contact values. Pseudonym
// sequence numbers are process-wide and monotonic; a record keeps the
// pseudonym it was assigned across restarts because the counter is seeded
// from the store's maximum assigned sequence.
type Anonymizer interface {
	// NextPseudonym reserves the next sequence number and returns it with
	// its rendered pseudonym ("ANON_0042"). Safe for concurrent use.
	NextPseudonym() (seq int64, pseudonym string)

	// MaskContact reduces a contact value to "XXX-XXX-" plus its last four
	// digits, or a fully masked placeholder when fewer than four digits
	// are present.
	MaskContact(contact string) string
}

// anonymizer implements Anonymizer with a mutex-guarded counter.
type anonymizer struct {
	mu  sync.Mutex
	seq int64
}

// NextPseudonym reserves the next sequence number.
func (a *anonymizer) NextPseudonym() (int64, string) {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	return seq, FormatPseudonym(seq)
}

// MaskContact masks a contact value, keeping only the last four digits.
func (a *anonymizer) MaskContact(contact string) string {
	if len(contact) < 4 {
		return maskedContactFallback
	}

	var digits strings.Builder
	for _, r := range contact {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) < 4 {
		return maskedContactFallback
	}

	return "XXX-XXX-" + d[len(d)-4:]
}

// FormatPseudonym renders a sequence number as a pseudonym. Sequences
// beyond 9999 widen naturally instead of wrapping.
func FormatPseudonym(seq int64) string {
	return fmt.Sprintf("ANON_%04d", seq)
}

// NewAnonymizer creates an Anonymizer whose next assigned sequence is
// seed+1. Pass the store's maximum assigned sequence (0 when none).
func NewAnonymizer(seed int64) Anonymizer {
	return &anonymizer{seq: seed}
}
