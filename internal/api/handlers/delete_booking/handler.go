package delete_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingAccount   = "отсутствует ID аккаунта"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings/{id} - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	if err := h.service.Delete(r.Context(), bookingID, caller); err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("DELETE /bookings/{id} - Access denied: booking_id=%d, account_id=%d", bookingID, caller.AccountID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("DELETE /bookings/{id} - Failed to delete booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking deleted: booking_id=%d", bookingID)
	handlers.RespondNoContent(w)
}
