package get_slot_availability

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/service/slots/models"
)

type SlotService interface {
	Availability(ctx context.Context, slotID int64) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
