// Package inmemory хранилище в памяти с теми же контрактами и ошибками, что и репозитории PostgreSQL.
// Используется для локального запуска без БД (database.driver = "memory") и в тестах.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

type txKey struct{}

// Store общее состояние всех репозиториев в памяти
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	nextID   int64
	services map[int64]domain.TestService
	slots    map[int64]domain.Slot
	bookings map[int64]domain.Booking
	payments map[int64]domain.Payment // по booking_id
	details  map[int64]domain.BookingDetail

	now func() time.Time

	// FailSlotKey позволяет тестам сымитировать ошибку вставки слота
	FailSlotKey func(key domain.SlotKey) error
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		services: make(map[int64]domain.TestService),
		slots:    make(map[int64]domain.Slot),
		bookings: make(map[int64]domain.Booking),
		payments: make(map[int64]domain.Payment),
		details:  make(map[int64]domain.BookingDetail),
		now:      time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// txLog журнал отмены транзакции: каждая запись возвращает одно изменение,
// сделанное внутри транзакции. Записи вне транзакции в журнал не попадают.
type txLog struct {
	undo []func()
}

// journal запоминает отмену изменения, если ctx внутри транзакции.
// Вызывается под s.mu.
func (s *Store) journal(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*txLog); ok {
		log.undo = append(log.undo, undo)
	}
}

// restoreEntry возвращает функцию, которая вернёт ключ key в map к текущему состоянию
func restoreEntry[K comparable, V any](m map[K]V, key K) func() {
	prev, existed := m[key]
	return func() {
		if existed {
			m[key] = prev
			return
		}
		delete(m, key)
	}
}

func (s *Store) rollback(log *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(log.undo) - 1; i >= 0; i-- {
		log.undo[i]()
	}
}

// Do выполняет fn как транзакцию: транзакции выполняются по очереди,
// при ошибке отменяются только изменения, сделанные внутри fn
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.rollback(log)
		return err
	}
	return nil
}

// DoSerializable то же, что Do: транзакции в памяти всегда последовательны
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// DoReadOnly то же, что Do
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// AddTestService добавляет услугу в каталог
func (s *Store) AddTestService(name string, price float64, deleted bool) domain.TestService {
	s.mu.Lock()
	defer s.mu.Unlock()

	service := domain.TestService{ID: s.id(), Name: name, Price: price, IsDeleted: deleted}
	s.services[service.ID] = service
	return service
}

// AddPayment добавляет платёж бронированию
func (s *Store) AddPayment(bookingID int64, amount float64, method string, status domain.PaymentStatus) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment := domain.Payment{
		ID:        s.id(),
		BookingID: bookingID,
		Amount:    amount,
		Method:    method,
		Status:    status,
		CreatedAt: s.now(),
	}
	s.payments[bookingID] = payment
	return payment
}

// SlotCount количество слотов в хранилище
func (s *Store) SlotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// AllSlots копии всех слотов
func (s *Store) AllSlots() []domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		out = append(out, slot)
	}
	return out
}

// Slots репозиторий слотов поверх хранилища
func (s *Store) Slots() *SlotRepository {
	return &SlotRepository{store: s}
}

// TestServices репозиторий услуг поверх хранилища
func (s *Store) TestServices() *TestServiceRepository {
	return &TestServiceRepository{store: s}
}

// Bookings репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// BookingDetails репозиторий записей поверх хранилища
func (s *Store) BookingDetails() *BookingDetailRepository {
	return &BookingDetailRepository{store: s}
}
