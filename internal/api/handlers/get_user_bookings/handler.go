package get_user_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
)

const msgMissingAccount = "отсутствует ID аккаунта"

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

// Handle GET /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing caller")
		handlers.RespondUnauthorized(w, msgMissingAccount)
		return
	}

	result, err := h.service.ListByAccount(r.Context(), caller)
	if err != nil {
		h.logger.Error("GET /bookings - Failed to list bookings: account_id=%d, error=%v", caller.AccountID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved: account_id=%d, count=%d", caller.AccountID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
