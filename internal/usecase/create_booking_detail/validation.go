package create_booking_detail

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, patient domain.Patient, now time.Time) error {
	if req.AccountID <= 0 {
		return fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}

	if req.TestServiceID <= 0 {
		return fmt.Errorf("%w: testServiceId must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}

	if err := patient.Validate(now); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateAccess проверяет, что клиент записывает в своё бронирование; персонал может любое
func validateAccess(booking *domain.Booking, accountID int64, role string) error {
	if domain.IsBackOffice(role) || booking.IsOwnedBy(accountID) {
		return nil
	}
	return ErrAccessDenied
}

// validateSlotForService проверяет, что слот относится к выбранной услуге
func validateSlotForService(slot *domain.Slot, testServiceID int64) error {
	if slot.TestServiceID != testServiceID {
		return fmt.Errorf("%w: slot id=%d belongs to test service id=%d",
			ErrInvalidReference, slot.ID, slot.TestServiceID)
	}
	return nil
}
