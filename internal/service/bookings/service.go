package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LabBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	detailRepo   BookingDetailRepository
	slotReleaser SlotReleaser
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	detailRepo BookingDetailRepository,
	slotReleaser SlotReleaser,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		detailRepo:   detailRepo,
		slotReleaser: slotReleaser,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает пустое бронирование для аккаунта вызывающего
func (s *Service) Create(ctx context.Context, caller domain.Caller) (*models.BookingResponse, error) {
	if caller.AccountID <= 0 {
		return nil, fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}

	created, err := s.bookingRepo.Create(ctx, &domain.Booking{AccountID: caller.AccountID})
	if err != nil {
		s.logger.Error("Create: repository error for account=%d: %v", caller.AccountID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created booking id=%d for account=%d", created.ID, caller.AccountID)
	return models.FromDomainBooking(created), nil
}

// GetByID получает бронирование вместе с записями и платежом.
// Клиент видит только свои бронирования, персонал клиники видит любые.
func (s *Service) GetByID(ctx context.Context, id int64, caller domain.Caller) (*models.BookingAggregateResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for account=%d", id, caller.AccountID)

	var aggregate domain.BookingAggregate

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "GetByID", id, caller, s.bookingRepo.GetByID)
		if err != nil {
			return err
		}
		aggregate.Booking = *booking

		details, err := s.detailRepo.ListByBooking(txCtx, id)
		if err != nil {
			s.logger.Error("GetByID: failed to list details of booking id=%d: %v", id, err)
			return fmt.Errorf("%w: GetByID - failed to list details: %v", ErrInternal, err)
		}
		aggregate.Details = details

		payment, err := s.bookingRepo.GetPaymentByBookingID(txCtx, id)
		switch {
		case err == nil:
			aggregate.Payment = payment
		case errors.Is(err, bookingRepo.ErrPaymentNotFound):
		default:
			s.logger.Error("GetByID: failed to get payment of booking id=%d: %v", id, err)
			return fmt.Errorf("%w: GetByID - failed to get payment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d with %d details", id, len(aggregate.Details))
	return models.FromDomainAggregate(&aggregate), nil
}

// ListByAccount получает бронирования аккаунта вызывающего, новые первыми
func (s *Service) ListByAccount(ctx context.Context, caller domain.Caller) (*models.BookingListResponse, error) {
	bookings, err := s.bookingRepo.ListByAccount(ctx, caller.AccountID)
	if err != nil {
		s.logger.Error("ListByAccount: repository error for account=%d: %v", caller.AccountID, err)
		return nil, fmt.Errorf("%w: ListByAccount - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByAccount: found %d bookings for account=%d", len(bookings), caller.AccountID)
	return models.FromDomainBookingList(bookings), nil
}

// Delete удаляет бронирование со всеми записями.
// Каждая неотменённая запись освобождает своё место до удаления, всё в одной транзакции.
func (s *Service) Delete(ctx context.Context, id int64, caller domain.Caller) error {
	s.logger.Info("Delete: deleting booking id=%d by account=%d", id, caller.AccountID)

	released := 0

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getBooking(txCtx, "Delete", id, caller, s.bookingRepo.GetByIDForUpdate); err != nil {
			return err
		}

		details, err := s.detailRepo.ListByBookingForUpdate(txCtx, id)
		if err != nil {
			s.logger.Error("Delete: failed to list details of booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - failed to list details: %v", ErrInternal, err)
		}

		for _, detail := range details {
			if !detail.Status.HoldsReservation() {
				continue
			}
			if _, err := s.slotReleaser.Release(txCtx, detail.SlotID); err != nil {
				s.logger.Error("Delete: failed to release slot id=%d of detail id=%d: %v", detail.SlotID, detail.ID, err)
				return fmt.Errorf("%w: Delete - failed to release slot: %v", ErrInternal, err)
			}
			released++
		}

		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deleted booking id=%d, released %d slot units", id, released)
	return nil
}

func (s *Service) getBooking(
	ctx context.Context,
	op string,
	id int64,
	caller domain.Caller,
	get func(ctx context.Context, id int64) (*domain.Booking, error),
) (*domain.Booking, error) {
	booking, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !caller.CanAccess(booking) {
		s.logger.Warn("%s: access denied for account=%d to booking id=%d", op, caller.AccountID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
