package booking_details

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// BookingDetailRepository интерфейс репозитория записей
type BookingDetailRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingDetail, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingDetail, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingDetailStatus) (*domain.BookingDetail, error)
	UpdatePatient(ctx context.Context, id int64, patient domain.Patient) (*domain.BookingDetail, error)
	Delete(ctx context.Context, id int64) (*domain.BookingDetail, error)
	SumPriceByBooking(ctx context.Context, bookingID int64) (float64, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// SlotReleaser освобождает место в слоте
type SlotReleaser interface {
	Release(ctx context.Context, slotID int64) (*domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
