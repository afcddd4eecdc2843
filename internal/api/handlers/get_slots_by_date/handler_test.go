package get_slots_by_date

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/inmemory"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-LabBookingService/pkg/logger"
)

func newRouter(t *testing.T) (*mux.Router, domain.TestService) {
	t.Helper()
	store := inmemory.NewStore()
	service := store.AddTestService("CBC", 150, false)
	date := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	for _, shift := range domain.AllShifts {
		_, err := store.Slots().Create(context.Background(), &domain.Slot{
			TestServiceID: service.ID,
			SlotDate:      date,
			Shift:         shift,
			MaxQuantity:   5,
		})
		require.NoError(t, err)
	}

	slotService := slots.NewService(store.Slots(), store.TestServices(), nil, 0, logger.NewNop())
	router := mux.NewRouter()
	router.HandleFunc("/api/TestServiceSlot/service/{serviceId}/date/{date}",
		NewHandler(slotService, logger.NewNop()).Handle).Methods(http.MethodGet)
	return router, service
}

func TestHandler_ListsSlots(t *testing.T) {
	router, service := newRouter(t)

	rec := httptest.NewRecorder()
	url := "/api/TestServiceSlot/service/" + strconv.FormatInt(service.ID, 10) + "/date/2025-01-07"
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SlotListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-01-07", resp.Date)
	require.Len(t, resp.Slots, 2)
	for _, slot := range resp.Slots {
		assert.True(t, slot.IsAvailable)
		assert.Equal(t, 5, slot.Remaining)
	}
}

func TestHandler_BadInput(t *testing.T) {
	router, _ := newRouter(t)

	for _, url := range []string{
		"/api/TestServiceSlot/service/abc/date/2025-01-07",
		"/api/TestServiceSlot/service/1/date/07-01-2025",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}
