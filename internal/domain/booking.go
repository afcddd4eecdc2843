package domain

import "time"

// PaymentStatus represents the state of the payment attached to a booking
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Booking groups booking details initiated by one customer account
type Booking struct {
	ID        int64
	AccountID int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the booking belongs to the account
func (b *Booking) IsOwnedBy(accountID int64) bool {
	return b.AccountID == accountID
}

// Payment is the single payment record of a booking
type Payment struct {
	ID        int64
	BookingID int64
	Amount    float64
	Method    string
	Status    PaymentStatus
	CreatedAt time.Time
}

// BookingAggregate is a booking with its details and optional payment
type BookingAggregate struct {
	Booking Booking
	Details []*BookingDetail
	Payment *Payment
}
