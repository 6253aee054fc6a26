package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nyHours(t *testing.T) MarketHours {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return MarketHours{
		Location:  loc,
		OpenHour:  9, OpenMinute: 30,
		CloseHour: 16, CloseMinute: 0,
	}
}

func TestMarketHours_IsOpen(t *testing.T) {
	hours := nyHours(t)
	loc := hours.Location

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"weekday midday", time.Date(2026, 3, 3, 12, 0, 0, 0, loc), true},
		{"at open", time.Date(2026, 3, 3, 9, 30, 0, 0, loc), true},
		{"before open", time.Date(2026, 3, 3, 9, 29, 0, 0, loc), false},
		{"at close", time.Date(2026, 3, 3, 16, 0, 0, 0, loc), false},
		{"evening", time.Date(2026, 3, 3, 20, 0, 0, 0, loc), false},
		{"saturday midday", time.Date(2026, 3, 7, 12, 0, 0, 0, loc), false},
		{"sunday midday", time.Date(2026, 3, 8, 12, 0, 0, 0, loc), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hours.IsOpen(tt.at))
		})
	}
}

func TestIntervalPolicy_AdaptsToMarketHours(t *testing.T) {
	hours := nyHours(t)
	policy := NewIntervalPolicy(hours, 5*time.Minute, time.Hour)

	open := time.Date(2026, 3, 3, 12, 0, 0, 0, hours.Location)
	closed := time.Date(2026, 3, 3, 20, 0, 0, 0, hours.Location)
	weekend := time.Date(2026, 3, 7, 12, 0, 0, 0, hours.Location)

	assert.Equal(t, 5*time.Minute, policy(open))
	assert.Equal(t, time.Hour, policy(closed))
	assert.Equal(t, time.Hour, policy(weekend))
}

func TestMarketHours_ConvertsCallerTimezone(t *testing.T) {
	hours := nyHours(t)
	// 17:00 UTC on a Tuesday is midday in New York.
	utcNoonish := time.Date(2026, 3, 3, 17, 0, 0, 0, time.UTC)
	assert.True(t, hours.IsOpen(utcNoonish))
}
