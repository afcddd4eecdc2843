package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры слота"
	msgServiceNotFound    = "услуга не найдена"
	msgSlotAlreadyExists  = "слот на эту дату и смену уже существует"
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

// Handle POST /api/TestServiceSlot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /TestServiceSlot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /TestServiceSlot - Invalid date %q: %v", req.SlotDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slot, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, slots.ErrTestServiceNotFound):
			handlers.RespondBadRequest(w, msgServiceNotFound)
		case errors.Is(err, slots.ErrSlotAlreadyExists):
			handlers.RespondConflict(w, msgSlotAlreadyExists)
		default:
			h.logger.Error("POST /TestServiceSlot - Failed to create slot: service_id=%d, error=%v", req.TestServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /TestServiceSlot - Slot created: slot_id=%d", slot.ID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
