package get_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgNotFound      = "слот не найден"
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

// Handle GET /api/TestServiceSlot/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("GET /TestServiceSlot/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	slot, err := h.service.GetByID(r.Context(), slotID)
	if err != nil {
		if errors.Is(err, slots.ErrSlotNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /TestServiceSlot/{id} - Failed to get slot: slot_id=%d, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, slot)
}
