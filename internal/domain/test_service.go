package domain

// TestService is a laboratory test that can be booked
type TestService struct {
	ID        int64
	Name      string
	Price     float64
	IsDeleted bool
}

// IsActive returns true if the service may receive new slots and bookings
func (s *TestService) IsActive() bool {
	return !s.IsDeleted
}
