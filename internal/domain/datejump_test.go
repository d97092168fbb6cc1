package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJumpDate(t *testing.T) {
	focused := date(2024, 2, 29)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", date(2025, 6, 15)},
		{"2025", date(2025, 2, 28)}, // day clamped
		{"2028", date(2028, 2, 29)},
		{"06/15/2025", date(2025, 6, 15)},
		{"6/5/2025", date(2025, 6, 5)},
		{"2025-06-15", date(2025, 6, 15)},
		{"15", date(2024, 2, 15)},
		{"29", date(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseJumpDate(tt.input, focused, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJumpDate_Invalid(t *testing.T) {
	focused := date(2025, 2, 10)
	now := focused

	for _, input := range []string{"", "30", "0", "13/45/2025", "next week", "1800"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseJumpDate(input, focused, now)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}
