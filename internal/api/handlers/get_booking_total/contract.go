package get_booking_total

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details/models"
)

type BookingDetailService interface {
	CalculateTotalAmount(ctx context.Context, bookingID int64, caller domain.Caller) (*models.TotalAmountResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
