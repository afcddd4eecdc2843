package delete_booking_detail

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details"
)

const (
	msgInvalidID = "некорректный ID записи"
	msgNotFound  = "запись не найдена"
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

// Handle DELETE /api/booking-details/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /booking-details/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, booking_details.ErrBookingDetailNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /booking-details/{id} - Failed to delete booking detail: id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /booking-details/{id} - Booking detail deleted: id=%d", id)
	handlers.RespondNoContent(w)
}
