package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidPatient is returned when patient fields fail validation
var ErrInvalidPatient = errors.New("invalid patient data")

// Normalize trims whitespace and truncates the date of birth to a calendar day
func (p Patient) Normalize() Patient {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Gender = Gender(strings.ToLower(strings.TrimSpace(string(p.Gender))))
	if !p.DateOfBirth.IsZero() {
		p.DateOfBirth = DateOnly(p.DateOfBirth)
	}
	return p
}

// Validate checks required fields; the date of birth must be before today
func (p Patient) Validate(now time.Time) error {
	if err := validateName("firstName", p.FirstName); err != nil {
		return err
	}
	if err := validateName("lastName", p.LastName); err != nil {
		return err
	}

	if p.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: dateOfBirth is required", ErrInvalidPatient)
	}
	if !DateOnly(p.DateOfBirth).Before(DateOnly(now)) {
		return fmt.Errorf("%w: dateOfBirth must be in the past", ErrInvalidPatient)
	}

	if err := validatePhone(p.Phone); err != nil {
		return err
	}

	if !p.Gender.IsValid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidPatient, p.Gender)
	}

	return nil
}

func validateName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidPatient, field)
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidPatient, field, MaxNameLength)
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > MaxPhoneLength {
		return fmt.Errorf("%w: phone is longer than %d characters", ErrInvalidPatient, MaxPhoneLength)
	}
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < MinPhoneLength {
		return fmt.Errorf("%w: phone must contain at least %d digits", ErrInvalidPatient, MinPhoneLength)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: phone must contain digits only", ErrInvalidPatient)
		}
	}
	return nil
}
