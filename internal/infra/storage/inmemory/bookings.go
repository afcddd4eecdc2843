package inmemory

import (
	"context"
	"sort"
	"strings"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking"
	detailRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking_detail"
)

// BookingRepository бронирования и платежи в памяти
type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	created := domain.Booking{
		ID:        r.store.id(),
		AccountID: booking.AccountID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.store.journal(ctx, restoreEntry(r.store.bookings, created.ID))
	r.store.bookings[created.ID] = created
	return &created, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &booking, nil
}

// GetByIDForUpdate то же, что GetByID: транзакции в памяти выполняются по очереди
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) ListByAccount(_ context.Context, accountID int64) ([]*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*domain.Booking, 0)
	for _, booking := range r.store.bookings {
		if booking.AccountID == accountID {
			booking := booking
			out = append(out, &booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *BookingRepository) GetPaymentByBookingID(_ context.Context, bookingID int64) (*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	payment, ok := r.store.payments[bookingID]
	if !ok {
		return nil, bookingRepo.ErrPaymentNotFound
	}
	return &payment, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	r.store.journal(ctx, restoreEntry(r.store.bookings, id))
	r.store.journal(ctx, restoreEntry(r.store.payments, id))
	delete(r.store.bookings, id)
	delete(r.store.payments, id)
	for detailID, detail := range r.store.details {
		if detail.BookingID == id {
			r.store.journal(ctx, restoreEntry(r.store.details, detailID))
			delete(r.store.details, detailID)
		}
	}
	return nil
}

// BookingDetailRepository записи в памяти; проверки ссылок и уникальности пациента
// повторяют ограничения схемы PostgreSQL
type BookingDetailRepository struct {
	store *Store
}

func samePatient(a, b domain.Patient) bool {
	return strings.EqualFold(a.FirstName, b.FirstName) &&
		strings.EqualFold(a.LastName, b.LastName) &&
		domain.DateOnly(a.DateOfBirth).Equal(domain.DateOnly(b.DateOfBirth))
}

func (r *BookingDetailRepository) hasActiveDuplicate(exceptID, slotID int64, patient domain.Patient) bool {
	for _, detail := range r.store.details {
		if detail.ID == exceptID || detail.SlotID != slotID || detail.IsCancelled() {
			continue
		}
		if samePatient(detail.Patient, patient) {
			return true
		}
	}
	return false
}

func (r *BookingDetailRepository) Create(ctx context.Context, detail *domain.BookingDetail) (*domain.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.bookings[detail.BookingID]; !ok {
		return nil, detailRepo.ErrInvalidReference
	}
	if _, ok := r.store.services[detail.TestServiceID]; !ok {
		return nil, detailRepo.ErrInvalidReference
	}
	if _, ok := r.store.slots[detail.SlotID]; !ok {
		return nil, detailRepo.ErrInvalidReference
	}
	if detail.Status != domain.DetailStatusCancelled && r.hasActiveDuplicate(0, detail.SlotID, detail.Patient) {
		return nil, detailRepo.ErrDuplicatePatient
	}

	now := r.store.now()
	created := *detail
	created.ID = r.store.id()
	created.Patient.DateOfBirth = domain.DateOnly(detail.Patient.DateOfBirth)
	created.CreatedAt = now
	created.UpdatedAt = now
	r.store.journal(ctx, restoreEntry(r.store.details, created.ID))
	r.store.details[created.ID] = created
	return &created, nil
}

func (r *BookingDetailRepository) GetByID(_ context.Context, id int64) (*domain.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	detail, ok := r.store.details[id]
	if !ok {
		return nil, detailRepo.ErrBookingDetailNotFound
	}
	return &detail, nil
}

func (r *BookingDetailRepository) ListByBooking(_ context.Context, bookingID int64) ([]*domain.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*domain.BookingDetail, 0)
	for _, detail := range r.store.details {
		if detail.BookingID == bookingID {
			detail := detail
			out = append(out, &detail)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListByBookingForUpdate то же, что ListByBooking
func (r *BookingDetailRepository) ListByBookingForUpdate(ctx context.Context, bookingID int64) ([]*domain.BookingDetail, error) {
	return r.ListByBooking(ctx, bookingID)
}

func (r *BookingDetailRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingDetailStatus) (*domain.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	detail, ok := r.store.details[id]
	if !ok {
		return nil, detailRepo.ErrBookingDetailNotFound
	}
	if detail.Status != from {
		return nil, detailRepo.ErrStatusConflict
	}
	r.store.journal(ctx, restoreEntry(r.store.details, id))
	detail.Status = to
	detail.UpdatedAt = r.store.now()
	r.store.details[id] = detail
	return &detail, nil
}

func (r *BookingDetailRepository) UpdatePatient(ctx context.Context, id int64, patient domain.Patient) (*domain.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	detail, ok := r.store.details[id]
	if !ok {
		return nil, detailRepo.ErrBookingDetailNotFound
	}
	if !detail.CanBeEdited() {
		return nil, detailRepo.ErrNotEditable
	}
	if r.hasActiveDuplicate(id, detail.SlotID, patient) {
		return nil, detailRepo.ErrDuplicatePatient
	}
	r.store.journal(ctx, restoreEntry(r.store.details, id))
	patient.DateOfBirth = domain.DateOnly(patient.DateOfBirth)
	detail.Patient = patient
	detail.UpdatedAt = r.store.now()
	r.store.details[id] = detail
	return &detail, nil
}

func (r *BookingDetailRepository) Delete(ctx context.Context, id int64) (*domain.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	detail, ok := r.store.details[id]
	if !ok {
		return nil, detailRepo.ErrBookingDetailNotFound
	}
	r.store.journal(ctx, restoreEntry(r.store.details, id))
	delete(r.store.details, id)
	return &detail, nil
}

func (r *BookingDetailRepository) SumPriceByBooking(_ context.Context, bookingID int64) (float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var total float64
	for _, detail := range r.store.details {
		if detail.BookingID == bookingID {
			total += r.store.services[detail.TestServiceID].Price
		}
	}
	return total, nil
}
