package trigger_slot_generation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/jobs/slotgen"
)

const msgAlreadyRunning = "генерация слотов уже выполняется"

// TriggerResponse ответ с ID поставленного в очередь прогона
type TriggerResponse struct {
	RunID string `json:"runId"`
}

type Handler struct {
	scheduler Scheduler
	logger    Logger
}

func NewHandler(scheduler Scheduler, logger Logger) *Handler {
	return &Handler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// Handle POST /api/TestServiceSlot/trigger-slot-generation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	runID, err := h.scheduler.Enqueue()
	if err != nil {
		if errors.Is(err, slotgen.ErrAlreadyRunning) {
			handlers.RespondConflict(w, msgAlreadyRunning)
			return
		}
		h.logger.Error("POST /TestServiceSlot/trigger-slot-generation - Failed to enqueue: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /TestServiceSlot/trigger-slot-generation - Run enqueued: run_id=%s", runID)
	handlers.RespondJSON(w, http.StatusAccepted, TriggerResponse{RunID: runID})
}
