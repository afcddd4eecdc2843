package get_slots_by_date

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/service/slots/models"
)

type SlotService interface {
	ListByServiceAndDate(ctx context.Context, testServiceID int64, date time.Time) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
