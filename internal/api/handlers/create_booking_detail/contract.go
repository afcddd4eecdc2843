package create_booking_detail

import (
	"context"

	createDetail "github.com/m04kA/SMC-LabBookingService/internal/usecase/create_booking_detail"
)

type CreateBookingDetailUseCase interface {
	Execute(ctx context.Context, req *createDetail.Request) (*createDetail.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
