package get_booking_detail

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details"
)

const (
	msgInvalidID      = "некорректный ID записи"
	msgNotFound       = "запись не найдена"
	msgMissingAccount = "отсутствует ID аккаунта"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/booking-details/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("GET /booking-details/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	detail, err := h.service.GetByID(r.Context(), id, caller)
	if err != nil {
		switch {
		case errors.Is(err, booking_details.ErrBookingDetailNotFound),
			errors.Is(err, booking_details.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, booking_details.ErrAccessDenied):
			h.logger.Warn("GET /booking-details/{id} - Access denied: id=%d, account_id=%d", id, caller.AccountID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /booking-details/{id} - Failed to get booking detail: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}
