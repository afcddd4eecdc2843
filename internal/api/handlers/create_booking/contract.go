package create_booking

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/bookings/models"
)

type BookingService interface {
	Create(ctx context.Context, caller domain.Caller) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
