package create_booking_detail

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	createDetail "github.com/m04kA/SMC-LabBookingService/internal/usecase/create_booking_detail"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOfBirth = "некорректный формат даты рождения, ожидается YYYY-MM-DD"
	msgMissingAccount     = "отсутствует ID аккаунта"
	msgInvalidInput       = "некорректные данные пациента"
	msgInvalidReference   = "слот или услуга не найдены либо не совпадают"
	msgBookingNotFound    = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCapacityExceeded   = "в выбранном слоте нет свободных мест"
	msgDuplicatePatient   = "пациент уже записан в этот слот"
)

type Handler struct {
	useCase CreateBookingDetailUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingDetailUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/booking-details
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /booking-details - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	var req CreateBookingDetailRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-details - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(caller)
	if err != nil {
		h.logger.Warn("POST /booking-details - Invalid date of birth %q: %v", req.DateOfBirth, err)
		handlers.RespondBadRequest(w, msgInvalidDateOfBirth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createDetail.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createDetail.ErrInvalidReference):
			h.logger.Warn("POST /booking-details - Invalid reference: slot_id=%d, service_id=%d", req.SlotID, req.TestServiceID)
			handlers.RespondBadRequest(w, msgInvalidReference)

		case errors.Is(err, createDetail.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, createDetail.ErrAccessDenied):
			h.logger.Warn("POST /booking-details - Access denied: booking_id=%d, account_id=%d", req.BookingID, caller.AccountID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createDetail.ErrCapacityExceeded):
			h.logger.Warn("POST /booking-details - Slot is full: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, createDetail.ErrDuplicatePatient):
			h.logger.Warn("POST /booking-details - Duplicate patient: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgDuplicatePatient)

		default:
			h.logger.Error("POST /booking-details - Failed to create booking detail: booking_id=%d, slot_id=%d, error=%v",
				req.BookingID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-details - Booking detail created: id=%d, booking_id=%d, slot_id=%d",
		result.ID, result.BookingID, result.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
