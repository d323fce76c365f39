package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatRelativeTimeFrom(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "now"},
		{59 * time.Second, "now"},
		{-time.Hour, "now"},
		{time.Minute, "1m ago"},
		{45 * time.Minute, "45m ago"},
		{2 * time.Hour, "2h ago"},
		{30 * time.Hour, "1d ago"},
		{8 * 24 * time.Hour, "1w ago"},
		{27 * 24 * time.Hour, "3w ago"},
		{29 * 24 * time.Hour, "1mo ago"},
		{95 * 24 * time.Hour, "3mo ago"},
		{800 * 24 * time.Hour, "2y ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, FormatRelativeTimeFrom(now.Add(-tt.ago), now))
		})
	}
}

func TestAge_UsesClock(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	clock := FixedClock{At: now}

	require.Equal(t, "5m ago", Age(now.Add(-5*time.Minute), clock))
	require.Equal(t, now, clock.Now())
}
