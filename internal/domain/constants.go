package domain

// Default configuration values
const (
	DefaultSlotCapacity       = 10
	DefaultGenerationDays     = 7
	DefaultGenerationCronSpec = "0 1 * * 0" // Sunday 01:00
)

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 500
	MaxNameLength   = 100
	MaxPhoneLength  = 20
	MinPhoneLength  = 7
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Roles carried in the access token
const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleStaff    = "Staff"
	RoleCustomer = "Customer"
)

// StaffRoles may manage slots and booking details
var StaffRoles = []string{RoleAdmin, RoleStaff}

// BackOfficeRoles may see any booking
var BackOfficeRoles = []string{RoleAdmin, RoleManager, RoleStaff}

// IsBackOffice reports whether role belongs to clinic personnel
func IsBackOffice(role string) bool {
	for _, r := range BackOfficeRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether role may mutate slots and booking details
func IsStaff(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}
