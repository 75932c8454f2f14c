// Package availability derives a doctor's live availability from their weekly
// working-hours schedule. The view is display-only; booking conflicts are
// enforced elsewhere.
package availability

import (
	"strings"
	"time"

	"clinic-booking-server/internal/models"
)

// Status classifies the doctor's availability right now.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusLaterToday  Status = "later_today"
	StatusNextDay     Status = "next_day"
	StatusUnavailable Status = "unavailable"
)

// Availability is the derived view returned to callers. NextAvailable, when
// set, is the opening time of the relevant day in HH:MM form.
type Availability struct {
	IsAvailable   bool   `json:"is_available"`
	Status        Status `json:"status"`
	Message       string `json:"message"`
	NextAvailable string `json:"next_available,omitempty"`
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Calculator computes availability against an injected clock.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a calculator using the wall clock.
func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// Current classifies the doctor's availability at this moment. A doctor with
// no published schedule is treated as always available. When today's range
// has passed (or today has no entry) the result falls through to a forward
// scan of the next seven days; a doctor who has closed for the day therefore
// reports the next configured day rather than "closed today".
func (c *Calculator) Current(doctor *models.User) Availability {
	now := c.now()
	today := strings.ToLower(now.Weekday().String())
	currentTime := now.Format(models.TimeLayout)

	hours := doctor.WorkingHours
	if len(hours) == 0 {
		return Availability{
			IsAvailable: true,
			Status:      StatusAvailable,
			Message:     "Available",
		}
	}

	entry, ok := hours.ForDay(today)
	if !ok {
		return c.nextAvailability(hours, now)
	}

	start, end, ok := splitRange(entry.Hours)
	if ok {
		switch {
		case currentTime >= start && currentTime <= end:
			return Availability{
				IsAvailable: true,
				Status:      StatusAvailable,
				Message:     "Available now",
			}
		case currentTime < start:
			return Availability{
				IsAvailable:   false,
				Status:        StatusLaterToday,
				Message:       "Available at " + start,
				NextAvailable: start,
			}
		}
	}

	return c.nextAvailability(hours, now)
}

// nextAvailability scans forward up to seven days for the next configured
// entry and reports its day name and opening time.
func (c *Calculator) nextAvailability(hours models.WorkingHours, now time.Time) Availability {
	todayIndex := indexOfDay(strings.ToLower(now.Weekday().String()))

	for i := 1; i <= 7; i++ {
		day := weekdays[(todayIndex+i)%7]
		entry, ok := hours.ForDay(day)
		if !ok {
			continue
		}
		start, _, ok := splitRange(entry.Hours)
		if !ok {
			continue
		}
		return Availability{
			IsAvailable:   false,
			Status:        StatusNextDay,
			Message:       "Available " + capitalize(day),
			NextAvailable: start,
		}
	}

	return Availability{
		IsAvailable: false,
		Status:      StatusUnavailable,
		Message:     "Not available",
	}
}

// splitRange parses an "HH:MM-HH:MM" schedule entry.
func splitRange(hours string) (start, end string, ok bool) {
	parts := strings.SplitN(hours, "-", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func capitalize(day string) string {
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + day[1:]
}

func indexOfDay(day string) int {
	for i, d := range weekdays {
		if d == day {
			return i
		}
	}
	return 0
}
