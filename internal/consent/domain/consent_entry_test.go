package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestConsentEntry_IsPurgeEligible(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		consentDate   time.Time
		retentionDays int
		want          bool
	}{
		{
			name:          "WindowElapsed",
			consentDate:   now.AddDate(-2, 0, 0),
			retentionDays: 365,
			want:          true,
		},
		{
			name:          "WithinWindow",
			consentDate:   now.AddDate(0, 0, -30),
			retentionDays: 365,
			want:          false,
		},
		{
			name:          "ExactBoundaryNotEligible",
			consentDate:   now.Add(-365 * 24 * time.Hour),
			retentionDays: 365,
			want:          false,
		},
		{
			name:          "JustPastBoundary",
			consentDate:   now.Add(-365*24*time.Hour - time.Second),
			retentionDays: 365,
			want:          true,
		},
		{
			name:          "ZeroRetention",
			consentDate:   now.Add(-time.Minute),
			retentionDays: 0,
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &ConsentEntry{
				RecordID:      uuid.Must(uuid.NewV7()),
				ConsentGiven:  true,
				ConsentDate:   tt.consentDate,
				RetentionDays: tt.retentionDays,
			}
			assert.Equal(t, tt.want, entry.IsPurgeEligible(now))
		})
	}
}
