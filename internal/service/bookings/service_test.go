package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/inmemory"
	"github.com/m04kA/SMC-LabBookingService/internal/service/slots"
	"github.com/m04kA/SMC-LabBookingService/pkg/logger"
)

var (
	owner    = domain.Caller{AccountID: 42, Role: domain.RoleCustomer}
	stranger = domain.Caller{AccountID: 7, Role: domain.RoleCustomer}
	manager  = domain.Caller{AccountID: 3, Role: domain.RoleManager}
)

func newTestService(t *testing.T) (*Service, *inmemory.Store, *slots.Service) {
	t.Helper()
	store := inmemory.NewStore()
	slotService := slots.NewService(store.Slots(), store.TestServices(), nil, 0, logger.NewNop())
	svc := NewService(store.Bookings(), store.BookingDetails(), slotService, store, logger.NewNop())
	return svc, store, slotService
}

func TestService_CreateAndGet(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, owner.AccountID, created.AccountID)

	store.AddPayment(created.ID, 150, "cash", domain.PaymentStatusPaid)

	aggregate, err := svc.GetByID(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, created.ID, aggregate.ID)
	assert.Empty(t, aggregate.Details)
	require.NotNil(t, aggregate.Payment)
	assert.Equal(t, "paid", aggregate.Payment.Status)

	_, err = svc.GetByID(ctx, created.ID, manager)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, created.ID, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, 999, owner)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.Create(ctx, domain.Caller{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListByAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, owner)
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner)
	require.NoError(t, err)
	_, err = svc.Create(ctx, stranger)
	require.NoError(t, err)

	list, err := svc.ListByAccount(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list.Bookings, 2)
	assert.Equal(t, second.ID, list.Bookings[0].ID)
	assert.Equal(t, first.ID, list.Bookings[1].ID)
}

func TestService_Delete_ReleasesActiveDetails(t *testing.T) {
	svc, store, slotService := newTestService(t)
	ctx := context.Background()

	service := store.AddTestService("CBC", 150, false)
	slot, err := store.Slots().Create(ctx, &domain.Slot{
		TestServiceID: service.ID,
		SlotDate:      time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftAfternoon,
		MaxQuantity:   5,
	})
	require.NoError(t, err)

	booking, err := svc.Create(ctx, owner)
	require.NoError(t, err)
	store.AddPayment(booking.ID, 300, "card", domain.PaymentStatusPending)

	statuses := []domain.BookingDetailStatus{
		domain.DetailStatusPending,
		domain.DetailStatusConfirmed,
		domain.DetailStatusCancelled,
	}
	for i, status := range statuses {
		if status.HoldsReservation() {
			_, err := slotService.Reserve(ctx, slot.ID)
			require.NoError(t, err)
		}
		_, err := store.BookingDetails().Create(ctx, &domain.BookingDetail{
			BookingID:     booking.ID,
			TestServiceID: service.ID,
			SlotID:        slot.ID,
			Patient: domain.Patient{
				FirstName:   []string{"An", "Binh", "Chi"}[i],
				LastName:    "Pham",
				DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			Status: status,
		})
		require.NoError(t, err)
	}

	before, err := store.Slots().GetByID(ctx, slot.ID)
	require.NoError(t, err)
	require.Equal(t, 2, before.CurrentQuantity)

	assert.ErrorIs(t, svc.Delete(ctx, booking.ID, stranger), ErrAccessDenied)

	require.NoError(t, svc.Delete(ctx, booking.ID, owner))

	after, err := store.Slots().GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.CurrentQuantity)

	details, err := store.BookingDetails().ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Empty(t, details)

	_, err = store.Bookings().GetPaymentByBookingID(ctx, booking.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, booking.ID, owner), ErrBookingNotFound)
}
