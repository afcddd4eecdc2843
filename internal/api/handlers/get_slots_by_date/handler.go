package get_slots_by_date

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/TestServiceSlot/service/{serviceId}/date/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /TestServiceSlot/service/{id}/date/{date} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("GET /TestServiceSlot/service/{id}/date/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ListByServiceAndDate(r.Context(), serviceID, date)
	if err != nil {
		if errors.Is(err, slots.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		h.logger.Error("GET /TestServiceSlot/service/{id}/date/{date} - Failed to list slots: service_id=%d, error=%v",
			serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
