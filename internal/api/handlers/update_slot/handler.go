package update_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots/models"
)

const (
	msgInvalidSlotID       = "некорректный ID слота"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidCapacity     = "вместимость должна быть положительной"
	msgNotFound            = "слот не найден"
	msgCapacityBelowBooked = "вместимость меньше числа занятых мест"
)

// UpdateSlotRequest HTTP запрос на изменение вместимости
type UpdateSlotRequest struct {
	MaxQuantity int `json:"maxQuantity"`
}

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

// Handle PUT /api/TestServiceSlot/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("PUT /TestServiceSlot/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /TestServiceSlot/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.Update(r.Context(), slotID, &models.UpdateSlotRequest{MaxQuantity: req.MaxQuantity})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCapacity)
		case errors.Is(err, slots.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, slots.ErrCapacityBelowOccupancy):
			handlers.RespondConflict(w, msgCapacityBelowBooked)
		default:
			h.logger.Error("PUT /TestServiceSlot/{id} - Failed to update slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /TestServiceSlot/{id} - Slot updated: slot_id=%d, capacity=%d", slotID, slot.MaxQuantity)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
