package get_booking_total

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingAccount   = "отсутствует ID аккаунта"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/booking-details/booking/{bookingId}/total
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /booking-details/booking/{id}/total - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	total, err := h.service.CalculateTotalAmount(r.Context(), bookingID, caller)
	if err != nil {
		switch {
		case errors.Is(err, booking_details.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, booking_details.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /booking-details/booking/{id}/total - Failed to calculate total: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, total)
}
