package create_booking_detail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/inmemory"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
	"github.com/m04kA/SMC-LabBookingService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	uc      *UseCase
	store   *inmemory.Store
	service domain.TestService
	slot    *domain.Slot
	booking *domain.Booking
}

const ownerID = int64(42)

func newFixture(t *testing.T, capacity int) *fixture {
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
	booking, err := store.Bookings().Create(ctx, &domain.Booking{AccountID: ownerID})
	require.NoError(t, err)

	slotService := slots.NewService(store.Slots(), store.TestServices(), nil, 0, logger.NewNop())
	uc := NewUseCase(
		store.Bookings(),
		store.BookingDetails(),
		store.Slots(),
		store.TestServices(),
		slotService,
		store,
		logger.NewNop(),
	)
	uc.timeProvider = fixedTime{now: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, store: store, service: service, slot: slot, booking: booking}
}

func (f *fixture) request(firstName string) *Request {
	return &Request{
		AccountID:     ownerID,
		Role:          domain.RoleCustomer,
		BookingID:     f.booking.ID,
		TestServiceID: f.service.ID,
		SlotID:        f.slot.ID,
		FirstName:     firstName,
		LastName:      "Nguyen",
		DateOfBirth:   time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
		Phone:         "0901234567",
		Gender:        "female",
	}
}

func (f *fixture) occupancy(t *testing.T) int {
	t.Helper()
	slot, err := f.store.Slots().GetByID(context.Background(), f.slot.ID)
	require.NoError(t, err)
	return slot.CurrentQuantity
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(t, 2)

	resp, err := f.uc.Execute(context.Background(), f.request("Mai"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.DetailStatusPending), resp.Status)
	assert.Equal(t, f.booking.ID, resp.BookingID)
	assert.Equal(t, 1, resp.SlotRemaining)
	assert.Equal(t, "Mai", resp.Patient.FirstName)
	assert.Equal(t, 1, f.occupancy(t))
}

func TestUseCase_Execute_CapacityExceeded(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request("Mai"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("Lan"))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, f.occupancy(t))

	details, err := f.store.BookingDetails().ListByBooking(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Len(t, details, 1)
}

func TestUseCase_Execute_DuplicatePatientRollsBackReservation(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request("Mai"))
	require.NoError(t, err)

	req := f.request("MAI")
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicatePatient)
	assert.Equal(t, 1, f.occupancy(t), "reservation of the failed attempt must be rolled back")
}

func TestUseCase_Execute_ReferenceAndAccessErrors(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	other := f.store.AddTestService("Lipid panel", 300, false)
	deleted := f.store.AddTestService("Legacy", 10, true)
	deletedSlot, err := f.store.Slots().Create(ctx, &domain.Slot{
		TestServiceID: deleted.ID,
		SlotDate:      time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftMorning,
		MaxQuantity:   5,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"unknown booking", func(r *Request) { r.BookingID = 9999 }, ErrBookingNotFound},
		{"foreign booking", func(r *Request) { r.AccountID = 7 }, ErrAccessDenied},
		{"unknown slot", func(r *Request) { r.SlotID = 9999 }, ErrInvalidReference},
		{"slot of another service", func(r *Request) { r.TestServiceID = other.ID }, ErrInvalidReference},
		{"deleted service", func(r *Request) {
			r.TestServiceID = deleted.ID
			r.SlotID = deletedSlot.ID
		}, ErrInvalidReference},
		{"invalid gender", func(r *Request) { r.Gender = "robot" }, ErrInvalidInput},
		{"future dob", func(r *Request) { r.DateOfBirth = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }, ErrInvalidInput},
		{"missing name", func(r *Request) { r.FirstName = "  " }, ErrInvalidInput},
		{"zero slot", func(r *Request) { r.SlotID = 0 }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("Mai")
			tt.mutate(req)
			_, err := f.uc.Execute(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.occupancy(t))
		})
	}
}

func TestUseCase_Execute_StaffMayBookForeignBooking(t *testing.T) {
	f := newFixture(t, 5)

	req := f.request("Mai")
	req.AccountID = 1
	req.Role = domain.RoleStaff

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestUseCase_Execute_ConcurrentBookingsRespectCapacity(t *testing.T) {
	const capacity = 3
	f := newFixture(t, capacity)
	ctx := context.Background()

	names := []string{"An", "Binh", "Chi", "Dung", "Em", "Giang", "Hoa", "Khanh"}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		exceeded int
	)
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := f.uc.Execute(ctx, f.request(name))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrCapacityExceeded):
				exceeded++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(name)
	}
	wg.Wait()

	assert.Equal(t, capacity, ok)
	assert.Equal(t, len(names)-capacity, exceeded)
	assert.Equal(t, capacity, f.occupancy(t))
}
