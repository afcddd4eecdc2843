package domain

// Caller is the authenticated account performing a request
type Caller struct {
	AccountID int64
	Role      string
}

// IsBackOffice returns true if the caller is clinic personnel
func (c Caller) IsBackOffice() bool {
	return IsBackOffice(c.Role)
}

// IsStaff returns true if the caller may mutate slots and booking details
func (c Caller) IsStaff() bool {
	return IsStaff(c.Role)
}

// CanAccess reports whether the caller may read or change the booking
func (c Caller) CanAccess(booking *Booking) bool {
	return c.IsBackOffice() || booking.IsOwnedBy(c.AccountID)
}
