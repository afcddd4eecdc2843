package update_booking_detail

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details"
)

const (
	msgInvalidID          = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOfBirth = "некорректный формат даты рождения, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные пациента"
	msgNotFound           = "запись не найдена"
	msgNotEditable        = "запись в конечном статусе нельзя изменить"
	msgDuplicatePatient   = "пациент уже записан в этот слот"
)

type Handler struct {
	service BookingDetailService
	logger  Logger
}

func NewHandler(service BookingDetailService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/booking-details/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PUT /booking-details/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateBookingDetailRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking-details/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateOfBirth)
		return
	}

	detail, err := h.service.Update(r.Context(), id, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, booking_details.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, booking_details.ErrBookingDetailNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, booking_details.ErrNotEditable):
			handlers.RespondBadRequest(w, msgNotEditable)
		case errors.Is(err, booking_details.ErrDuplicatePatient):
			handlers.RespondConflict(w, msgDuplicatePatient)
		default:
			h.logger.Error("PUT /booking-details/{id} - Failed to update booking detail: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /booking-details/{id} - Booking detail updated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, detail)
}
