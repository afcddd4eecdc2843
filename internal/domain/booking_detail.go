package domain

import "time"

// BookingDetailStatus represents the lifecycle status of a booking detail
type BookingDetailStatus string

const (
	DetailStatusPending     BookingDetailStatus = "pending"
	DetailStatusConfirmed   BookingDetailStatus = "confirmed"
	DetailStatusTested      BookingDetailStatus = "tested"
	DetailStatusResultReady BookingDetailStatus = "result_ready"
	DetailStatusCancelled   BookingDetailStatus = "cancelled"
)

// detailTransitions lists the forward staff steps; cancellation is handled separately
var detailTransitions = map[BookingDetailStatus]BookingDetailStatus{
	DetailStatusPending:   DetailStatusConfirmed,
	DetailStatusConfirmed: DetailStatusTested,
	DetailStatusTested:    DetailStatusResultReady,
}

// ParseBookingDetailStatus converts a raw string into a known status
func ParseBookingDetailStatus(s string) (BookingDetailStatus, bool) {
	switch status := BookingDetailStatus(s); status {
	case DetailStatusPending, DetailStatusConfirmed, DetailStatusTested,
		DetailStatusResultReady, DetailStatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// IsTerminal returns true if no further transition is allowed from the status
func (s BookingDetailStatus) IsTerminal() bool {
	return s == DetailStatusCancelled || s == DetailStatusResultReady
}

// CanTransitionTo reports whether from -> to is a legal lifecycle step
func (s BookingDetailStatus) CanTransitionTo(to BookingDetailStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if to == DetailStatusCancelled {
		return true
	}
	next, ok := detailTransitions[s]
	return ok && next == to
}

// HoldsReservation returns true while the detail keeps a unit of its slot reserved
func (s BookingDetailStatus) HoldsReservation() bool {
	return s != DetailStatusCancelled
}

// Gender of the patient as captured at booking time
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid returns true if the gender is one of the known values
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Patient holds identity fields captured at booking time, independent of any account
type Patient struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       string
	Gender      Gender
}

// BookingDetail is one test appointment inside a booking bound to a slot
type BookingDetail struct {
	ID            int64
	BookingID     int64
	TestServiceID int64
	SlotID        int64
	Patient       Patient
	Status        BookingDetailStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCancelled returns true if the detail has already released its reservation
func (d *BookingDetail) IsCancelled() bool {
	return d.Status == DetailStatusCancelled
}

// CanBeEdited returns true if patient data may still be changed
func (d *BookingDetail) CanBeEdited() bool {
	return !d.Status.IsTerminal()
}
