package update_booking_detail_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details"
)

const (
	msgInvalidID          = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "неизвестный статус записи"
	msgInvalidTransition  = "недопустимая смена статуса"
	msgNotFound           = "запись не найдена"
	msgMissingAccount     = "отсутствует ID аккаунта"
	msgForbidden          = "доступ запрещен"
)

// UpdateStatusRequest HTTP запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

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

// Handle PUT /api/booking-details/{id}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PUT /booking-details/{id}/status - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking-details/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	detail, err := h.service.UpdateStatus(r.Context(), id, req.Status, caller)
	if err != nil {
		switch {
		case errors.Is(err, booking_details.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)
		case errors.Is(err, booking_details.ErrInvalidTransition):
			handlers.RespondBadRequest(w, msgInvalidTransition)
		case errors.Is(err, booking_details.ErrBookingDetailNotFound),
			errors.Is(err, booking_details.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, booking_details.ErrAccessDenied):
			h.logger.Warn("PUT /booking-details/{id}/status - Access denied: id=%d, account_id=%d", id, caller.AccountID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("PUT /booking-details/{id}/status - Failed to update status: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /booking-details/{id}/status - Status updated: id=%d, status=%s", id, detail.Status)
	handlers.RespondJSON(w, http.StatusOK, detail)
}
