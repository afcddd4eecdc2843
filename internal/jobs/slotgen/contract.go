package slotgen

import (
	"context"

	"github.com/m04kA/SMC-LabBookingService/internal/usecase/generate_slots"
)

// Generator процедура генерации слотов
type Generator interface {
	Execute(ctx context.Context, req *generate_slots.Request) (*generate_slots.Response, error)
}

// MetricsRecorder метрики прогонов генератора
type MetricsRecorder interface {
	RecordSlotGeneration(trigger string, created, existing, failed int)
	RecordSlotGenerationError(trigger string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
