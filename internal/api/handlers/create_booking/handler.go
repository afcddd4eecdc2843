package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/service/bookings"
)

const (
	msgMissingAccount = "отсутствует ID аккаунта"
	msgInvalidAccount = "некорректный ID аккаунта"
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

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	booking, err := h.service.Create(r.Context(), caller)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidAccount)
			return
		}
		h.logger.Error("POST /bookings - Failed to create booking: account_id=%d, error=%v", caller.AccountID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, account_id=%d", booking.ID, caller.AccountID)
	handlers.RespondJSON(w, http.StatusCreated, booking)
}
