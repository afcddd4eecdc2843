package inmemory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/slot"
	testServiceRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/testservice"
)

// SlotRepository слоты в памяти; условные обновления выполняются под мьютексом
type SlotRepository struct {
	store *Store
}

func (r *SlotRepository) findByKey(key domain.SlotKey) (domain.Slot, bool) {
	date := domain.DateOnly(key.SlotDate)
	for _, slot := range r.store.slots {
		if slot.TestServiceID == key.TestServiceID && slot.SlotDate.Equal(date) && slot.Shift == key.Shift {
			return slot, true
		}
	}
	return domain.Slot{}, false
}

func (r *SlotRepository) insert(ctx context.Context, key domain.SlotKey, capacity int) (domain.Slot, error) {
	if _, ok := r.store.services[key.TestServiceID]; !ok {
		return domain.Slot{}, slotRepo.ErrTestServiceNotFound
	}
	now := r.store.now()
	slot := domain.Slot{
		ID:            r.store.id(),
		TestServiceID: key.TestServiceID,
		SlotDate:      domain.DateOnly(key.SlotDate),
		Shift:         key.Shift,
		MaxQuantity:   capacity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.store.journal(ctx, restoreEntry(r.store.slots, slot.ID))
	r.store.slots[slot.ID] = slot
	return slot, nil
}

// shiftQuantity сдвигает занятость слота на delta; используется отменой транзакции
func (r *SlotRepository) shiftQuantity(id int64, delta int) {
	if slot, ok := r.store.slots[id]; ok {
		slot.CurrentQuantity += delta
		r.store.slots[id] = slot
	}
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := domain.SlotKey{TestServiceID: slot.TestServiceID, SlotDate: slot.SlotDate, Shift: slot.Shift}
	if _, exists := r.findByKey(key); exists {
		return nil, slotRepo.ErrSlotAlreadyExists
	}
	created, err := r.insert(ctx, key, slot.MaxQuantity)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *SlotRepository) InsertIfAbsent(ctx context.Context, key domain.SlotKey, capacity int) (*domain.Slot, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.FailSlotKey != nil {
		if err := r.store.FailSlotKey(key); err != nil {
			return nil, false, err
		}
	}

	if existing, ok := r.findByKey(key); ok {
		return &existing, false, nil
	}
	created, err := r.insert(ctx, key, capacity)
	if err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

func (r *SlotRepository) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &slot, nil
}

func (r *SlotRepository) ListByServiceAndDate(_ context.Context, testServiceID int64, date time.Time) ([]*domain.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	day := domain.DateOnly(date)
	out := make([]*domain.Slot, 0)
	for _, slot := range r.store.slots {
		if slot.TestServiceID == testServiceID && slot.SlotDate.Equal(day) {
			slot := slot
			out = append(out, &slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shift != out[j].Shift {
			return out[i].Shift > out[j].Shift
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *SlotRepository) IncrementIfAvailable(ctx context.Context, id int64) (*domain.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if slot.CurrentQuantity >= slot.MaxQuantity {
		return nil, slotRepo.ErrSlotFull
	}
	r.store.journal(ctx, func() { r.shiftQuantity(id, -1) })
	slot.CurrentQuantity++
	slot.UpdatedAt = r.store.now()
	r.store.slots[id] = slot
	return &slot, nil
}

func (r *SlotRepository) DecrementIfReserved(ctx context.Context, id int64) (*domain.Slot, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, false, slotRepo.ErrSlotNotFound
	}
	if slot.CurrentQuantity == 0 {
		return &slot, false, nil
	}
	r.store.journal(ctx, func() { r.shiftQuantity(id, 1) })
	slot.CurrentQuantity--
	slot.UpdatedAt = r.store.now()
	r.store.slots[id] = slot
	return &slot, true, nil
}

func (r *SlotRepository) UpdateCapacity(ctx context.Context, id int64, maxQuantity int) (*domain.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if slot.CurrentQuantity > maxQuantity {
		return nil, slotRepo.ErrCapacityBelowOccupancy
	}
	prevMax := slot.MaxQuantity
	r.store.journal(ctx, func() {
		if current, ok := r.store.slots[id]; ok {
			current.MaxQuantity = prevMax
			r.store.slots[id] = current
		}
	})
	slot.MaxQuantity = maxQuantity
	slot.UpdatedAt = r.store.now()
	r.store.slots[id] = slot
	return &slot, nil
}

func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	for _, detail := range r.store.details {
		if detail.SlotID == id {
			return slotRepo.ErrSlotInUse
		}
	}
	r.store.journal(ctx, restoreEntry(r.store.slots, id))
	delete(r.store.slots, id)
	return nil
}

// TestServiceRepository каталог услуг в памяти
type TestServiceRepository struct {
	store *Store
}

func (r *TestServiceRepository) GetByID(_ context.Context, id int64) (*domain.TestService, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	service, ok := r.store.services[id]
	if !ok {
		return nil, testServiceRepo.ErrTestServiceNotFound
	}
	return &service, nil
}

func (r *TestServiceRepository) ListActive(_ context.Context) ([]*domain.TestService, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*domain.TestService, 0, len(r.store.services))
	for _, service := range r.store.services {
		if service.IsActive() {
			service := service
			out = append(out, &service)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
