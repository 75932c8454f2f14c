package scheduling

import (
	"time"

	"clinic-booking-server/internal/models"
)

// Booking window policy: appointments may be placed from today up to three
// months out, never on a Sunday, and only between 08:00 and 19:30 inclusive.
const (
	bookingHorizonMonths = 3
	openingMinute        = 8 * 60
	closingMinute        = 19*60 + 30
)

// ParseDate parses a calendar date in models.DateLayout form.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, s, time.Local)
}

// ParseTime parses a time of day in models.TimeLayout form.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(models.TimeLayout, s)
}

// IsBookableDate reports whether date falls in [today, today+3 months]
// inclusive and is not a Sunday. The reference instant is passed in so the
// check stays deterministic under test.
func IsBookableDate(date, now time.Time) bool {
	if date.Weekday() == time.Sunday {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, bookingHorizonMonths, 0)
	return !day.Before(today) && !day.After(horizon)
}

// IsBookableTime reports whether the time of day falls in [08:00, 19:30]
// inclusive.
func IsBookableTime(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	return minute >= openingMinute && minute <= closingMinute
}
