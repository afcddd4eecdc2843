package update_booking_detail

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details/models"
)

type BookingDetailService interface {
	Update(ctx context.Context, id int64, req *models.UpdatePatientRequest) (*models.BookingDetailResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
