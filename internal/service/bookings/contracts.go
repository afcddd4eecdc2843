package bookings

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Booking, error)
	GetPaymentByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	Delete(ctx context.Context, id int64) error
}

// BookingDetailRepository интерфейс репозитория записей
type BookingDetailRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingDetail, error)
	ListByBookingForUpdate(ctx context.Context, bookingID int64) ([]*domain.BookingDetail, error)
}

// SlotReleaser освобождает место в слоте
type SlotReleaser interface {
	Release(ctx context.Context, slotID int64) (*domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
