package get_booking_detail

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details/models"
)

type BookingDetailService interface {
	GetByID(ctx context.Context, id int64, caller domain.Caller) (*models.BookingDetailResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
