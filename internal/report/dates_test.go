package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatLong(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		locale   string
		expected string
	}{
		{"english long form", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "en", "March 3, 2025"},
		{"french long form", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "fr", "3 mars 2025"},
		{"unsupported locale falls back to english", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), "pl", "January 2, 2020"},
		{"time component is ignored", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "en", "December 31, 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLong(tt.date, tt.locale))
		})
	}
}

func TestFormatLongIsDeterministic(t *testing.T) {
	date := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	first := FormatLong(date, "en")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FormatLong(date, "en"))
	}
}
