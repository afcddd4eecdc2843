package delete_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgNotFound      = "слот не найден"
	msgSlotInUse     = "на слот есть записи, удаление невозможно"
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

// Handle DELETE /api/TestServiceSlot/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /TestServiceSlot/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), slotID); err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, slots.ErrSlotInUse):
			handlers.RespondConflict(w, msgSlotInUse)
		default:
			h.logger.Error("DELETE /TestServiceSlot/{id} - Failed to delete slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /TestServiceSlot/{id} - Slot deleted: slot_id=%d", slotID)
	handlers.RespondNoContent(w)
}
