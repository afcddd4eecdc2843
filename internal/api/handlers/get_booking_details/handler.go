package get_booking_details

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

// Handle GET /api/booking-details/booking/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /booking-details/booking/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	result, err := h.service.ListByBooking(r.Context(), bookingID, caller)
	if err != nil {
		switch {
		case errors.Is(err, booking_details.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, booking_details.ErrAccessDenied):
			h.logger.Warn("GET /booking-details/booking/{id} - Access denied: booking_id=%d, account_id=%d",
				bookingID, caller.AccountID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /booking-details/booking/{id} - Failed to list details: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /booking-details/booking/{id} - Details retrieved: booking_id=%d, count=%d",
		bookingID, len(result.Details))
	handlers.RespondJSON(w, http.StatusOK, result)
}
