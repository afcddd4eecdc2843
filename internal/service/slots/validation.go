package slots

import (
	"fmt"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots/models"
)

// validateCreateRequest валидирует запрос на создание слота
func validateCreateRequest(req *models.CreateSlotRequest) error {
	if req.TestServiceID <= 0 {
		return fmt.Errorf("%w: testServiceId must be positive", ErrInvalidInput)
	}

	if req.SlotDate.IsZero() {
		return fmt.Errorf("%w: slotDate is required", ErrInvalidInput)
	}

	if !domain.Shift(req.Shift).IsValid() {
		return fmt.Errorf("%w: unknown shift %q", ErrInvalidInput, req.Shift)
	}

	return validateCapacity(req.MaxQuantity)
}

// validateCapacity проверяет границы вместимости
func validateCapacity(capacity int) error {
	if capacity < domain.MinSlotCapacity || capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: maxQuantity must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}
	return nil
}
