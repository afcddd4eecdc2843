package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/slot"
	testServiceRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/testservice"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-LabBookingService/pkg/metrics"
)

// Service менеджер вместимости слотов.
// Единственная точка изменения занятости слота: Reserve и Release.
type Service struct {
	slotRepo        SlotRepository
	testServiceRepo TestServiceRepository
	metrics         MetricsRecorder
	defaultCapacity int
	logger          Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	testServiceRepo TestServiceRepository,
	recorder MetricsRecorder,
	defaultCapacity int,
	logger Logger,
) *Service {
	if defaultCapacity < domain.MinSlotCapacity {
		defaultCapacity = domain.DefaultSlotCapacity
	}
	if recorder == nil {
		recorder = noopMetrics{}
	}
	return &Service{
		slotRepo:        slotRepo,
		testServiceRepo: testServiceRepo,
		metrics:         recorder,
		defaultCapacity: defaultCapacity,
		logger:          logger,
	}
}

// Reserve занимает одно место в слоте.
// Возвращает ErrCapacityExceeded, если слот заполнен; занятость при этом не меняется.
func (s *Service) Reserve(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, err := s.slotRepo.IncrementIfAvailable(ctx, slotID)
	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotFull):
			s.metrics.IncSlotReservation(metrics.ReservationCapacityExceeded)
			s.logger.Warn("Reserve: slot id=%d is full", slotID)
			return nil, ErrCapacityExceeded
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.metrics.IncSlotReservation(metrics.ReservationNotFound)
			s.logger.Warn("Reserve: slot id=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("Reserve: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: Reserve - repository error: %v", ErrInternal, err)
	}

	s.metrics.IncSlotReservation(metrics.ReservationReserved)
	s.logger.Info("Reserve: slot id=%d reserved, %d/%d taken", slotID, slot.CurrentQuantity, slot.MaxQuantity)
	return slot, nil
}

// Release освобождает одно место в слоте.
// Освобождение пустого слота не ошибка: занятость остаётся 0.
func (s *Service) Release(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, released, err := s.slotRepo.DecrementIfReserved(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.metrics.IncSlotReservation(metrics.ReservationNotFound)
			s.logger.Warn("Release: slot id=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("Release: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if !released {
		s.metrics.IncSlotReservation(metrics.ReservationReleaseNoop)
		s.logger.Warn("Release: slot id=%d is already empty, nothing to release", slotID)
		return slot, nil
	}

	s.metrics.IncSlotReservation(metrics.ReservationReleased)
	s.logger.Info("Release: slot id=%d released, %d/%d taken", slotID, slot.CurrentQuantity, slot.MaxQuantity)
	return slot, nil
}

// Availability возвращает доступность слота и число свободных мест
func (s *Service) Availability(ctx context.Context, slotID int64) (*models.AvailabilityResponse, error) {
	slot, err := s.getSlot(ctx, "Availability", slotID)
	if err != nil {
		return nil, err
	}

	return &models.AvailabilityResponse{
		SlotID:      slot.ID,
		IsAvailable: slot.IsAvailable(),
		Remaining:   slot.Remaining(),
	}, nil
}

// FindOrCreate возвращает слот для (услуга, дата, смена), создавая его
// с вместимостью по умолчанию, если его нет. Существующие слоты не меняются.
// created = true, если слот создан этим вызовом.
func (s *Service) FindOrCreate(ctx context.Context, testServiceID int64, date time.Time, shift domain.Shift) (*domain.Slot, bool, error) {
	if testServiceID <= 0 || date.IsZero() || !shift.IsValid() {
		return nil, false, fmt.Errorf("%w: service=%d, date=%s, shift=%q",
			ErrInvalidInput, testServiceID, date.Format(domain.DateFormat), shift)
	}

	key := domain.SlotKey{
		TestServiceID: testServiceID,
		SlotDate:      domain.DateOnly(date),
		Shift:         shift,
	}

	slot, created, err := s.slotRepo.InsertIfAbsent(ctx, key, s.defaultCapacity)
	if err != nil {
		if errors.Is(err, slotRepo.ErrTestServiceNotFound) {
			return nil, false, ErrTestServiceNotFound
		}
		return nil, false, fmt.Errorf("%w: FindOrCreate - repository error: %v", ErrInternal, err)
	}

	return slot, created, nil
}

// GetByID получает слот по ID
func (s *Service) GetByID(ctx context.Context, slotID int64) (*models.SlotResponse, error) {
	slot, err := s.getSlot(ctx, "GetByID", slotID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// ListByServiceAndDate получает слоты услуги на дату с доступностью
func (s *Service) ListByServiceAndDate(ctx context.Context, testServiceID int64, date time.Time) (*models.SlotListResponse, error) {
	if testServiceID <= 0 {
		return nil, fmt.Errorf("%w: testServiceID must be positive", ErrInvalidInput)
	}

	slots, err := s.slotRepo.ListByServiceAndDate(ctx, testServiceID, date)
	if err != nil {
		s.logger.Error("ListByServiceAndDate: repository error for service=%d: %v", testServiceID, err)
		return nil, fmt.Errorf("%w: ListByServiceAndDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByServiceAndDate: found %d slots for service=%d, date=%s",
		len(slots), testServiceID, date.Format(domain.DateFormat))
	return models.FromDomainSlotList(testServiceID, date, slots), nil
}

// Create создает слот вручную (для персонала)
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: service=%d, date=%s, shift=%s, capacity=%d",
		req.TestServiceID, req.SlotDate.Format(domain.DateFormat), req.Shift, req.MaxQuantity)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	service, err := s.testServiceRepo.GetByID(ctx, req.TestServiceID)
	if err != nil {
		if errors.Is(err, testServiceRepo.ErrTestServiceNotFound) {
			s.logger.Warn("Create: test service id=%d not found", req.TestServiceID)
			return nil, ErrTestServiceNotFound
		}
		s.logger.Error("Create: failed to get test service id=%d: %v", req.TestServiceID, err)
		return nil, fmt.Errorf("%w: Create - failed to get test service: %v", ErrInternal, err)
	}
	if !service.IsActive() {
		s.logger.Warn("Create: test service id=%d is deleted", req.TestServiceID)
		return nil, ErrTestServiceNotFound
	}

	created, err := s.slotRepo.Create(ctx, &domain.Slot{
		TestServiceID: req.TestServiceID,
		SlotDate:      domain.DateOnly(req.SlotDate),
		Shift:         domain.Shift(req.Shift),
		MaxQuantity:   req.MaxQuantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotAlreadyExists):
			s.logger.Warn("Create: slot already exists for service=%d, date=%s, shift=%s",
				req.TestServiceID, req.SlotDate.Format(domain.DateFormat), req.Shift)
			return nil, ErrSlotAlreadyExists
		case errors.Is(err, slotRepo.ErrTestServiceNotFound):
			return nil, ErrTestServiceNotFound
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// Update меняет вместимость слота (для персонала).
// Вместимость нельзя опустить ниже текущей занятости.
func (s *Service) Update(ctx context.Context, slotID int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: slot id=%d, capacity=%d", slotID, req.MaxQuantity)

	if err := validateCapacity(req.MaxQuantity); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.slotRepo.UpdateCapacity(ctx, slotID, req.MaxQuantity)
	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("Update: slot id=%d not found", slotID)
			return nil, ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrCapacityBelowOccupancy):
			s.logger.Warn("Update: capacity %d is below occupancy of slot id=%d", req.MaxQuantity, slotID)
			return nil, ErrCapacityBelowOccupancy
		}
		s.logger.Error("Update: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated slot id=%d", slotID)
	return models.FromDomainSlot(updated), nil
}

// Delete удаляет слот; слоты, на которые ссылаются записи, не удаляются
func (s *Service) Delete(ctx context.Context, slotID int64) error {
	s.logger.Info("Delete: deleting slot id=%d", slotID)

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("Delete: slot id=%d not found", slotID)
			return ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotInUse):
			s.logger.Warn("Delete: slot id=%d is referenced by booking details", slotID)
			return ErrSlotInUse
		}
		s.logger.Error("Delete: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted slot id=%d", slotID)
	return nil
}

type noopMetrics struct{}

func (noopMetrics) IncSlotReservation(string) {}

func (s *Service) getSlot(ctx context.Context, op string, slotID int64) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", op, slotID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return slot, nil
}
