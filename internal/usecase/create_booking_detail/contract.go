package create_booking_detail

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
}

// BookingDetailRepository интерфейс репозитория записей
type BookingDetailRepository interface {
	Create(ctx context.Context, detail *domain.BookingDetail) (*domain.BookingDetail, error)
}

// SlotRepository интерфейс репозитория слотов (только чтение)
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// TestServiceRepository интерфейс репозитория услуг
type TestServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TestService, error)
}

// SlotReserver занимает место в слоте
type SlotReserver interface {
	Reserve(ctx context.Context, slotID int64) (*domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
