package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// WorkingHoursEntry is one declared slot of a doctor's weekly schedule,
// e.g. {Day: "monday", Hours: "09:00-17:00"}.
type WorkingHoursEntry struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// WorkingHours is the full weekly schedule, stored as a JSON column.
// An empty set means the doctor has not published a schedule.
type WorkingHours []WorkingHoursEntry

// Value implements driver.Valuer for gorm serialization.
func (wh WorkingHours) Value() (driver.Value, error) {
	if len(wh) == 0 {
		return nil, nil
	}
	return json.Marshal(wh)
}

// Scan implements sql.Scanner for gorm deserialization.
func (wh *WorkingHours) Scan(value interface{}) error {
	if value == nil {
		*wh = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for working hours", value)
	}
	return json.Unmarshal(raw, wh)
}

// ForDay returns the schedule entry for a lowercase English weekday name.
func (wh WorkingHours) ForDay(day string) (WorkingHoursEntry, bool) {
	for _, entry := range wh {
		if strings.EqualFold(entry.Day, day) {
			return entry, true
		}
	}
	return WorkingHoursEntry{}, false
}

// User represents an account mirrored from the identity store. Patients,
// doctors and clinic admins share the table; doctor-only columns stay empty
// for the other roles.
type User struct {
	BaseModel
	Email        string       `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName    string       `gorm:"size:100" json:"firstName"`
	LastName     string       `gorm:"size:100" json:"lastName"`
	Role         Role         `gorm:"size:20;default:'patient'" json:"role"`
	PhoneNumber  string       `json:"phoneNumber,omitempty"`
	Address      string       `json:"address,omitempty"`
	Specialty    string       `gorm:"size:100" json:"specialty,omitempty"`
	Bio          string       `gorm:"type:text" json:"bio,omitempty"`
	WorkingHours WorkingHours `gorm:"type:json" json:"workingHours,omitempty"`

	// Relations (not always preloaded)
	DoctorAppointments  []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
}

// FullName returns the display name used in lists and emails.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
