package create_booking_detail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/inmemory"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
	createDetail "github.com/m04kA/SMC-LabBookingService/internal/usecase/create_booking_detail"
	"github.com/m04kA/SMC-LabBookingService/pkg/logger"
)

var owner = domain.Caller{AccountID: 42, Role: domain.RoleCustomer}

func setup(t *testing.T, capacity int) (*Handler, *domain.Slot, *domain.Booking, domain.TestService) {
	t.Helper()
	ctx := context.Background()

	store := inmemory.NewStore()
	service := store.AddTestService("CBC", 150, false)
	slot, err := store.Slots().Create(ctx, &domain.Slot{
		TestServiceID: service.ID,
		SlotDate:      time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftMorning,
		MaxQuantity:   capacity,
	})
	require.NoError(t, err)
	booking, err := store.Bookings().Create(ctx, &domain.Booking{AccountID: owner.AccountID})
	require.NoError(t, err)

	slotService := slots.NewService(store.Slots(), store.TestServices(), nil, 0, logger.NewNop())
	uc := createDetail.NewUseCase(
		store.Bookings(), store.BookingDetails(), store.Slots(), store.TestServices(),
		slotService, store, logger.NewNop(),
	)
	return NewHandler(uc, logger.NewNop()), slot, booking, service
}

func body(bookingID, serviceID, slotID int64, firstName string) string {
	return `{"bookingId":` + strconv.FormatInt(bookingID, 10) + `,"testServiceId":` + strconv.FormatInt(serviceID, 10) + `,"slotId":` + strconv.FormatInt(slotID, 10) +
		`,"firstName":"` + firstName + `","lastName":"Nguyen","dateOfBirth":"1990-05-01","phone":"+84901234567","gender":"female"}`
}

func do(h *Handler, caller *domain.Caller, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/booking-details", strings.NewReader(payload))
	if caller != nil {
		req = req.WithContext(middleware.WithCaller(req.Context(), *caller))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	h, slot, booking, service := setup(t, 2)

	rec := do(h, &owner, body(booking.ID, service.ID, slot.ID, "Lan"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateBookingDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "1990-05-01", resp.DateOfBirth)
	assert.Equal(t, 1, resp.SlotRemaining)
}

func TestHandler_Errors(t *testing.T) {
	h, slot, booking, service := setup(t, 1)
	stranger := domain.Caller{AccountID: 7, Role: domain.RoleCustomer}

	require.Equal(t, http.StatusCreated, do(h, &owner, body(booking.ID, service.ID, slot.ID, "Lan")).Code)

	tests := []struct {
		name    string
		caller  *domain.Caller
		payload string
		want    int
	}{
		{"missing caller", nil, body(booking.ID, service.ID, slot.ID, "Mai"), http.StatusUnauthorized},
		{"malformed body", &owner, `{"bookingId":`, http.StatusBadRequest},
		{"unknown field", &owner, `{"foo":1}`, http.StatusBadRequest},
		{"bad date of birth", &owner, strings.Replace(body(booking.ID, service.ID, slot.ID, "Mai"), "1990-05-01", "01.05.1990", 1), http.StatusBadRequest},
		{"empty first name", &owner, body(booking.ID, service.ID, slot.ID, ""), http.StatusBadRequest},
		{"slot of another service", &owner, body(booking.ID, service.ID+100, slot.ID, "Mai"), http.StatusBadRequest},
		{"unknown booking", &owner, body(booking.ID+100, service.ID, slot.ID, "Mai"), http.StatusNotFound},
		{"foreign booking", &stranger, body(booking.ID, service.ID, slot.ID, "Mai"), http.StatusForbidden},
		{"slot is full", &owner, body(booking.ID, service.ID, slot.ID, "Mai"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.caller, tt.payload)
			assert.Equal(t, tt.want, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
