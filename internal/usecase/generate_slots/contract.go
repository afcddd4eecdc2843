package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// TestServiceRepository интерфейс каталога услуг
type TestServiceRepository interface {
	ListActive(ctx context.Context) ([]*domain.TestService, error)
}

// SlotFinder находит или создает слот по естественному ключу
type SlotFinder interface {
	FindOrCreate(ctx context.Context, testServiceID int64, date time.Time, shift domain.Shift) (*domain.Slot, bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
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
