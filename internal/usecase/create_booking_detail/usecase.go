package create_booking_detail

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking"
	detailRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking_detail"
	slotRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/slot"
	testServiceRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/testservice"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
)

// UseCase use case для создания записи на анализ
type UseCase struct {
	bookingRepo     BookingRepository
	detailRepo      BookingDetailRepository
	slotRepo        SlotRepository
	testServiceRepo TestServiceRepository
	slotReserver    SlotReserver
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	detailRepo BookingDetailRepository,
	slotRepo SlotRepository,
	testServiceRepo TestServiceRepository,
	slotReserver SlotReserver,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		detailRepo:      detailRepo,
		slotRepo:        slotRepo,
		testServiceRepo: testServiceRepo,
		slotReserver:    slotReserver,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Место в слоте занимается и запись создается в одной транзакции:
// любая ошибка после Reserve откатывает и резерв.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBookingDetail: account=%d, booking=%d, service=%d, slot=%d",
		req.AccountID, req.BookingID, req.TestServiceID, req.SlotID)

	// 1. Валидация входных данных
	patient := req.patient()
	if err := validateRequest(req, patient, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBookingDetail: validation failed: %v", err)
		return nil, err
	}

	var (
		result *domain.BookingDetail
		slot   *domain.Slot
	)

	// 2. Все проверки ссылок, резерв и вставка в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Бронирование существует и принадлежит вызывающему
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CreateBookingDetail: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CreateBookingDetail: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if err := validateAccess(booking, req.AccountID, req.Role); err != nil {
			uc.logger.Warn("CreateBookingDetail: account=%d has no access to booking id=%d", req.AccountID, req.BookingID)
			return err
		}

		// 2.2. Слот существует и относится к услуге
		target, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBookingDetail: slot id=%d not found", req.SlotID)
				return fmt.Errorf("%w: slot id=%d not found", ErrInvalidReference, req.SlotID)
			}
			uc.logger.Error("CreateBookingDetail: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if err := validateSlotForService(target, req.TestServiceID); err != nil {
			uc.logger.Warn("CreateBookingDetail: %v", err)
			return err
		}

		// 2.3. Услуга существует и не удалена
		service, err := uc.testServiceRepo.GetByID(txCtx, req.TestServiceID)
		if err != nil {
			if errors.Is(err, testServiceRepo.ErrTestServiceNotFound) {
				uc.logger.Warn("CreateBookingDetail: test service id=%d not found", req.TestServiceID)
				return fmt.Errorf("%w: test service id=%d not found", ErrInvalidReference, req.TestServiceID)
			}
			uc.logger.Error("CreateBookingDetail: failed to get test service id=%d: %v", req.TestServiceID, err)
			return fmt.Errorf("%w: failed to get test service: %v", ErrInternal, err)
		}
		if !service.IsActive() {
			uc.logger.Warn("CreateBookingDetail: test service id=%d is deleted", req.TestServiceID)
			return fmt.Errorf("%w: test service id=%d is deleted", ErrInvalidReference, req.TestServiceID)
		}

		// 2.4. Занимаем место
		reserved, err := uc.slotReserver.Reserve(txCtx, req.SlotID)
		if err != nil {
			switch {
			case errors.Is(err, slots.ErrCapacityExceeded):
				return ErrCapacityExceeded
			case errors.Is(err, slots.ErrSlotNotFound):
				return fmt.Errorf("%w: slot id=%d not found", ErrInvalidReference, req.SlotID)
			}
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		// 2.5. Создаем запись в статусе pending
		created, err := uc.detailRepo.Create(txCtx, &domain.BookingDetail{
			BookingID:     req.BookingID,
			TestServiceID: req.TestServiceID,
			SlotID:        req.SlotID,
			Patient:       patient,
			Status:        domain.DetailStatusPending,
		})
		if err != nil {
			switch {
			case errors.Is(err, detailRepo.ErrDuplicatePatient):
				uc.logger.Warn("CreateBookingDetail: patient %s %s already booked for slot id=%d",
					patient.FirstName, patient.LastName, req.SlotID)
				return ErrDuplicatePatient
			case errors.Is(err, detailRepo.ErrInvalidReference):
				uc.logger.Warn("CreateBookingDetail: invalid reference: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidReference, err)
			}
			uc.logger.Error("CreateBookingDetail: failed to create booking detail: %v", err)
			return fmt.Errorf("%w: failed to create booking detail: %v", ErrInternal, err)
		}

		result = created
		slot = reserved
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBookingDetail: successfully created booking detail id=%d, slot id=%d %d/%d taken",
		result.ID, slot.ID, slot.CurrentQuantity, slot.MaxQuantity)

	return &Response{
		ID:            result.ID,
		BookingID:     result.BookingID,
		TestServiceID: result.TestServiceID,
		SlotID:        result.SlotID,
		Patient:       result.Patient,
		Status:        string(result.Status),
		SlotRemaining: slot.Remaining(),
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}
