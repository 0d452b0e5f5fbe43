package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAnonymizer_NextPseudonym(t *testing.T) {
	t.Run("SequentialFromSeed", func(t *testing.T) {
		anonymizer := NewAnonymizer(0)

		seq, pseudonym := anonymizer.NextPseudonym()
		assert.Equal(t, int64(1), seq)
		assert.Equal(t, "ANON_0001", pseudonym)

		seq, pseudonym = anonymizer.NextPseudonym()
		assert.Equal(t, int64(2), seq)
		assert.Equal(t, "ANON_0002", pseudonym)
	})

	t.Run("ResumesAfterSeed", func(t *testing.T) {
		anonymizer := NewAnonymizer(41)

		seq, pseudonym := anonymizer.NextPseudonym()
		assert.Equal(t, int64(42), seq)
		assert.Equal(t, "ANON_0042", pseudonym)
	})

	t.Run("WidensBeyondFourDigits", func(t *testing.T) {
		anonymizer := NewAnonymizer(9999)

		_, pseudonym := anonymizer.NextPseudonym()
		assert.Equal(t, "ANON_10000", pseudonym)
	})

	t.Run("ConcurrentAssignmentsAreUnique", func(t *testing.T) {
		anonymizer := NewAnonymizer(0)

		const workers = 50
		results := make(chan int64, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				seq, _ := anonymizer.NextPseudonym()
				results <- seq
			}()
		}
		wg.Wait()
		close(results)

		seen := make(map[int64]bool)
		for seq := range results {
			assert.False(t, seen[seq], "duplicate sequence %d", seq)
			seen[seq] = true
		}
		assert.Len(t, seen, workers)
	})
}

func TestAnonymizer_MaskContact(t *testing.T) {
	anonymizer := NewAnonymizer(0)

	tests := []struct {
		name    string
		contact string
		want    string
	}{
		{"PhoneWithDashes", "555-123-4567", "XXX-XXX-4567"},
		{"DigitsOnly", "5551234567", "XXX-XXX-4567"},
		{"WithCountryCode", "+1 (555) 123-9999", "XXX-XXX-9999"},
		{"Empty", "", "XXX-XXX-XXXX"},
		{"TooShort", "123", "XXX-XXX-XXXX"},
		{"FewDigitsAmongLetters", "abc12defg", "XXX-XXX-XXXX"},
		{"ExactlyFourDigits", "ab1234", "XXX-XXX-1234"},
		{"NoDigits", "no-digits-here", "XXX-XXX-XXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, anonymizer.MaskContact(tt.contact))
		})
	}
}
