package domain

import "time"

// Shift is a part of the working day a slot belongs to
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
)

// AllShifts is the fixed shift set used by slot generation
var AllShifts = []Shift{ShiftMorning, ShiftAfternoon}

// IsValid returns true if the shift is one of the known values
func (s Shift) IsValid() bool {
	for _, known := range AllShifts {
		if s == known {
			return true
		}
	}
	return false
}

// Slot is the capacity record of a test service for one (date, shift)
// Invariant: 0 <= CurrentQuantity <= MaxQuantity
type Slot struct {
	ID              int64
	TestServiceID   int64
	SlotDate        time.Time
	Shift           Shift
	MaxQuantity     int
	CurrentQuantity int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAvailable returns true if at least one unit can still be reserved
func (s *Slot) IsAvailable() bool {
	return s.CurrentQuantity < s.MaxQuantity
}

// Remaining returns the number of units that can still be reserved
func (s *Slot) Remaining() int {
	remaining := s.MaxQuantity - s.CurrentQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SlotKey identifies a slot by its natural key
type SlotKey struct {
	TestServiceID int64
	SlotDate      time.Time
	Shift         Shift
}

// DateOnly truncates t to midnight UTC of the same calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
