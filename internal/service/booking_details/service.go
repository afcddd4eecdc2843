package booking_details

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking"
	detailRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking_detail"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details/models"
)

// Service жизненный цикл записей на анализ.
// Все изменения статуса, влияющие на занятость слота, выполняются в одной транзакции с Release.
type Service struct {
	detailRepo   BookingDetailRepository
	bookingRepo  BookingRepository
	slotReleaser SlotReleaser
	txManager    TransactionManager
	now          func() time.Time
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	detailRepo BookingDetailRepository,
	bookingRepo BookingRepository,
	slotReleaser SlotReleaser,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		detailRepo:   detailRepo,
		bookingRepo:  bookingRepo,
		slotReleaser: slotReleaser,
		txManager:    txManager,
		now:          time.Now,
		logger:       logger,
	}
}

// GetByID получает запись по ID.
// Клиент видит только записи своих бронирований.
func (s *Service) GetByID(ctx context.Context, id int64, caller domain.Caller) (*models.BookingDetailResponse, error) {
	detail, err := s.getDetail(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, "GetByID", detail.BookingID, caller); err != nil {
		return nil, err
	}

	return models.FromDomainBookingDetail(detail), nil
}

// ListByBooking получает все записи бронирования
func (s *Service) ListByBooking(ctx context.Context, bookingID int64, caller domain.Caller) (*models.BookingDetailListResponse, error) {
	if err := s.checkAccess(ctx, "ListByBooking", bookingID, caller); err != nil {
		return nil, err
	}

	details, err := s.detailRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("ListByBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListByBooking - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBooking: found %d details for booking id=%d", len(details), bookingID)
	return models.FromDomainBookingDetailList(bookingID, details), nil
}

// UpdateStatus переводит запись в новый статус.
// Переход в cancelled освобождает место в слоте в той же транзакции.
// Повторная отмена уже отменённой записи ничего не меняет и не освобождает место второй раз.
// Клиент может только отменить запись своего бронирования.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string, caller domain.Caller) (*models.BookingDetailResponse, error) {
	s.logger.Info("UpdateStatus: detail id=%d -> %s by account=%d (%s)", id, rawStatus, caller.AccountID, caller.Role)

	to, ok := domain.ParseBookingDetailStatus(rawStatus)
	if !ok {
		s.logger.Warn("UpdateStatus: unknown status %q", rawStatus)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, rawStatus)
	}

	if !caller.IsStaff() && to != domain.DetailStatusCancelled {
		s.logger.Warn("UpdateStatus: account=%d with role %s may only cancel", caller.AccountID, caller.Role)
		return nil, ErrAccessDenied
	}

	var result *domain.BookingDetail

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		detail, err := s.getDetail(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if !caller.IsStaff() {
			if err := s.checkAccess(txCtx, "UpdateStatus", detail.BookingID, caller); err != nil {
				return err
			}
		}

		if detail.IsCancelled() && to == domain.DetailStatusCancelled {
			s.logger.Info("UpdateStatus: detail id=%d is already cancelled, nothing to do", id)
			result = detail
			return nil
		}

		if !detail.Status.CanTransitionTo(to) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for detail id=%d", detail.Status, to, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, detail.Status, to)
		}

		updated, err := s.detailRepo.UpdateStatus(txCtx, id, detail.Status, to)
		if err != nil {
			switch {
			case errors.Is(err, detailRepo.ErrStatusConflict):
				if to == domain.DetailStatusCancelled {
					current, getErr := s.getDetail(txCtx, "UpdateStatus", id)
					if getErr != nil {
						return getErr
					}
					if current.IsCancelled() {
						s.logger.Info("UpdateStatus: detail id=%d was cancelled concurrently, nothing to do", id)
						result = current
						return nil
					}
				}
				s.logger.Warn("UpdateStatus: detail id=%d changed concurrently", id)
				return fmt.Errorf("%w: status of detail id=%d changed concurrently", ErrInvalidTransition, id)
			case errors.Is(err, detailRepo.ErrBookingDetailNotFound):
				return ErrBookingDetailNotFound
			}
			s.logger.Error("UpdateStatus: repository error for detail id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if to == domain.DetailStatusCancelled {
			if err := s.release(txCtx, "UpdateStatus", detail.SlotID); err != nil {
				return err
			}
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: detail id=%d is now %s", id, result.Status)
	return models.FromDomainBookingDetail(result), nil
}

// Update изменяет данные пациента в записи с нетерминальным статусом
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdatePatientRequest) (*models.BookingDetailResponse, error) {
	s.logger.Info("Update: updating patient data of detail id=%d", id)

	patient := req.ToDomainPatient()
	if err := patient.Validate(s.now()); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.detailRepo.UpdatePatient(ctx, id, patient)
	if err != nil {
		switch {
		case errors.Is(err, detailRepo.ErrBookingDetailNotFound):
			s.logger.Warn("Update: detail id=%d not found", id)
			return nil, ErrBookingDetailNotFound
		case errors.Is(err, detailRepo.ErrNotEditable):
			s.logger.Warn("Update: detail id=%d is in a terminal status", id)
			return nil, ErrNotEditable
		case errors.Is(err, detailRepo.ErrDuplicatePatient):
			s.logger.Warn("Update: patient already booked for the slot of detail id=%d", id)
			return nil, ErrDuplicatePatient
		}
		s.logger.Error("Update: repository error for detail id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated detail id=%d", id)
	return models.FromDomainBookingDetail(updated), nil
}

// Delete удаляет запись; если она держала место в слоте, место освобождается
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting detail id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		deleted, err := s.detailRepo.Delete(txCtx, id)
		if err != nil {
			if errors.Is(err, detailRepo.ErrBookingDetailNotFound) {
				s.logger.Warn("Delete: detail id=%d not found", id)
				return ErrBookingDetailNotFound
			}
			s.logger.Error("Delete: repository error for detail id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if !deleted.Status.HoldsReservation() {
			return nil
		}
		return s.release(txCtx, "Delete", deleted.SlotID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deleted detail id=%d", id)
	return nil
}

// CalculateTotalAmount суммирует цены услуг всех записей бронирования
func (s *Service) CalculateTotalAmount(ctx context.Context, bookingID int64, caller domain.Caller) (*models.TotalAmountResponse, error) {
	if err := s.checkAccess(ctx, "CalculateTotalAmount", bookingID, caller); err != nil {
		return nil, err
	}

	total, err := s.detailRepo.SumPriceByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("CalculateTotalAmount: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: CalculateTotalAmount - repository error: %v", ErrInternal, err)
	}

	return &models.TotalAmountResponse{BookingID: bookingID, TotalAmount: total}, nil
}

func (s *Service) getDetail(ctx context.Context, op string, id int64) (*domain.BookingDetail, error) {
	detail, err := s.detailRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, detailRepo.ErrBookingDetailNotFound) {
			s.logger.Warn("%s: detail id=%d not found", op, id)
			return nil, ErrBookingDetailNotFound
		}
		s.logger.Error("%s: repository error for detail id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return detail, nil
}

// checkAccess проверяет существование бронирования и права вызывающего на него
func (s *Service) checkAccess(ctx context.Context, op string, bookingID int64, caller domain.Caller) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("%s: failed to get booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - failed to get booking: %v", ErrInternal, op, err)
	}

	if !caller.CanAccess(booking) {
		s.logger.Warn("%s: access denied for account=%d to booking id=%d", op, caller.AccountID, bookingID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) release(ctx context.Context, op string, slotID int64) error {
	if _, err := s.slotReleaser.Release(ctx, slotID); err != nil {
		s.logger.Error("%s: failed to release slot id=%d: %v", op, slotID, err)
		return fmt.Errorf("%w: %s - failed to release slot: %v", ErrInternal, op, err)
	}
	return nil
}
