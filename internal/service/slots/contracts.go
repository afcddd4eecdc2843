package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	InsertIfAbsent(ctx context.Context, key domain.SlotKey, capacity int) (*domain.Slot, bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	ListByServiceAndDate(ctx context.Context, testServiceID int64, date time.Time) ([]*domain.Slot, error)
	IncrementIfAvailable(ctx context.Context, id int64) (*domain.Slot, error)
	DecrementIfReserved(ctx context.Context, id int64) (*domain.Slot, bool, error)
	UpdateCapacity(ctx context.Context, id int64, maxQuantity int) (*domain.Slot, error)
	Delete(ctx context.Context, id int64) error
}

// TestServiceRepository интерфейс репозитория услуг
type TestServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TestService, error)
}

// MetricsRecorder счётчики результатов reserve/release
type MetricsRecorder interface {
	IncSlotReservation(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
