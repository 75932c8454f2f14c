package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday, 2099-06-01 10:00 local time.
var fixedNow = time.Date(2099, time.June, 1, 10, 0, 0, 0, time.Local)

func TestIsBookableDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"today is bookable", "2099-06-01", true},
		{"monday inside window", "2099-06-15", true},
		{"sunday rejected", "2099-06-07", false},
		{"yesterday rejected", "2099-05-31", false},
		{"three month boundary inclusive", "2099-09-01", true},
		{"past the three month boundary", "2099-09-02", false},
		{"far future rejected", "2099-12-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, IsBookableDate(date, fixedNow))
		})
	}
}

func TestIsBookableDate_TimeOfDayIgnored(t *testing.T) {
	// A booking made late in the evening must still accept today's date.
	lateNow := time.Date(2099, time.June, 1, 23, 45, 0, 0, time.Local)
	date, err := ParseDate("2099-06-01")
	require.NoError(t, err)
	assert.True(t, IsBookableDate(date, lateNow))
}

func TestIsBookableTime(t *testing.T) {
	tests := []struct {
		timeOfDay string
		want      bool
	}{
		{"07:59", false},
		{"08:00", true},
		{"12:30", true},
		{"19:30", true},
		{"19:31", false},
		{"23:00", false},
		{"00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.timeOfDay, func(t *testing.T) {
			parsed, err := ParseTime(tt.timeOfDay)
			require.NoError(t, err)
			assert.Equal(t, tt.want, IsBookableTime(parsed))
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("15/06/2099")
	assert.Error(t, err)
}

func TestParseTime_Invalid(t *testing.T) {
	_, err := ParseTime("8am")
	assert.Error(t, err)
}
