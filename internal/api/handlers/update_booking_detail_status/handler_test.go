package update_booking_detail_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details"
	"github.com/m04kA/SMC-LabBookingService/internal/service/booking_details/models"
	"github.com/m04kA/SMC-LabBookingService/pkg/logger"
)

type stubService struct {
	err      error
	gotID    int64
	gotState string
}

func (s *stubService) UpdateStatus(_ context.Context, id int64, rawStatus string, _ domain.Caller) (*models.BookingDetailResponse, error) {
	s.gotID = id
	s.gotState = rawStatus
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingDetailResponse{ID: id, Status: rawStatus}, nil
}

func TestHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"unknown status", booking_details.ErrInvalidInput, http.StatusBadRequest},
		{"invalid transition", fmt.Errorf("%w: completed -> pending", booking_details.ErrInvalidTransition), http.StatusBadRequest},
		{"not found", booking_details.ErrBookingDetailNotFound, http.StatusNotFound},
		{"access denied", booking_details.ErrAccessDenied, http.StatusForbidden},
		{"internal", booking_details.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubService{err: tt.err}
			h := NewHandler(stub, logger.NewNop())

			req := httptest.NewRequest(http.MethodPut, "/api/booking-details/15/status", strings.NewReader(`{"status":"confirmed"}`))
			req = mux.SetURLVars(req, map[string]string{"id": "15"})
			req = req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{AccountID: 1, Role: domain.RoleStaff}))
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, int64(15), stub.gotID)
			assert.Equal(t, "confirmed", stub.gotState)
		})
	}
}

func TestHandler_InvalidID(t *testing.T) {
	h := NewHandler(&stubService{}, logger.NewNop())

	req := httptest.NewRequest(http.MethodPut, "/api/booking-details/abc/status", strings.NewReader(`{"status":"confirmed"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()

	h.Handle(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
