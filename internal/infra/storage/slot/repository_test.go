package slot

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/pkg/dbmetrics"
)

var day = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func slotRows(values ...[]driver.Value) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRows(values...)
}

func slotRow(id int64, maxQuantity, currentQuantity int) []driver.Value {
	return []driver.Value{id, int64(3), day, "morning", int64(maxQuantity), int64(currentQuantity), day, day}
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

const selectByID = `SELECT .* FROM test_service_slots WHERE id = \$1$`

func TestRepository_IncrementIfAvailable(t *testing.T) {
	increment := q("UPDATE test_service_slots SET current_quantity = current_quantity + 1, updated_at = NOW() WHERE id = $1 AND current_quantity < max_quantity RETURNING")

	t.Run("reserves a unit", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(increment).WithArgs(int64(10)).WillReturnRows(slotRows(slotRow(10, 3, 2)))

		slot, err := repo.IncrementIfAvailable(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 2, slot.CurrentQuantity)
		assert.Equal(t, domain.ShiftMorning, slot.Shift)
	})

	t.Run("full slot", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(increment).WithArgs(int64(10)).WillReturnRows(slotRows())
		mock.ExpectQuery(selectByID).WithArgs(int64(10)).WillReturnRows(slotRows(slotRow(10, 3, 3)))

		_, err := repo.IncrementIfAvailable(context.Background(), 10)
		assert.ErrorIs(t, err, ErrSlotFull)
	})

	t.Run("missing slot", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(increment).WithArgs(int64(10)).WillReturnRows(slotRows())
		mock.ExpectQuery(selectByID).WithArgs(int64(10)).WillReturnRows(slotRows())

		_, err := repo.IncrementIfAvailable(context.Background(), 10)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(increment).WillReturnError(&pq.Error{Code: "57014"})

		_, err := repo.IncrementIfAvailable(context.Background(), 10)
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestRepository_DecrementIfReserved(t *testing.T) {
	decrement := q("UPDATE test_service_slots SET current_quantity = current_quantity - 1, updated_at = NOW() WHERE id = $1 AND current_quantity > 0 RETURNING")

	t.Run("releases a unit", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(decrement).WithArgs(int64(10)).WillReturnRows(slotRows(slotRow(10, 3, 0)))

		slot, released, err := repo.DecrementIfReserved(context.Background(), 10)
		require.NoError(t, err)
		assert.True(t, released)
		assert.Equal(t, 0, slot.CurrentQuantity)
	})

	t.Run("already empty", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(decrement).WithArgs(int64(10)).WillReturnRows(slotRows())
		mock.ExpectQuery(selectByID).WithArgs(int64(10)).WillReturnRows(slotRows(slotRow(10, 3, 0)))

		slot, released, err := repo.DecrementIfReserved(context.Background(), 10)
		require.NoError(t, err)
		assert.False(t, released)
		assert.Equal(t, 0, slot.CurrentQuantity)
	})

	t.Run("missing slot", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(decrement).WithArgs(int64(10)).WillReturnRows(slotRows())
		mock.ExpectQuery(selectByID).WithArgs(int64(10)).WillReturnRows(slotRows())

		_, _, err := repo.DecrementIfReserved(context.Background(), 10)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestRepository_InsertIfAbsent(t *testing.T) {
	key := domain.SlotKey{TestServiceID: 3, SlotDate: day.Add(9 * time.Hour), Shift: domain.ShiftMorning}
	insert := q("INSERT INTO test_service_slots ") + ".*" +
		q("ON CONFLICT ON CONSTRAINT test_service_slots_key DO NOTHING RETURNING id,")
	selectByKey := q("SELECT ") + ".*" + q(" FROM test_service_slots WHERE ")

	t.Run("creates", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(insert).
			WithArgs(int64(3), day, "morning", int64(5), int64(0)).
			WillReturnRows(slotRows(slotRow(10, 5, 0)))

		slot, created, err := repo.InsertIfAbsent(context.Background(), key, 5)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(10), slot.ID)
	})

	t.Run("conflict returns existing", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(insert).WillReturnRows(slotRows())
		mock.ExpectQuery(selectByKey).WillReturnRows(slotRows(slotRow(7, 5, 2)))

		slot, created, err := repo.InsertIfAbsent(context.Background(), key, 5)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(7), slot.ID)
		assert.Equal(t, 2, slot.CurrentQuantity)
	})

	t.Run("unknown service", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(insert).WillReturnError(&pq.Error{Code: "23503"})

		_, _, err := repo.InsertIfAbsent(context.Background(), key, 5)
		assert.ErrorIs(t, err, ErrTestServiceNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	insert := q("INSERT INTO test_service_slots ")
	slot := &domain.Slot{TestServiceID: 3, SlotDate: day, Shift: domain.ShiftAfternoon, MaxQuantity: 4}

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"duplicate key", &pq.Error{Code: "23505"}, ErrSlotAlreadyExists},
		{"unknown service", &pq.Error{Code: "23503"}, ErrTestServiceNotFound},
		{"other error", &pq.Error{Code: "08006"}, ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery(insert).WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), slot)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepository_UpdateCapacity(t *testing.T) {
	update := q("UPDATE test_service_slots SET max_quantity = $1, updated_at = NOW() WHERE id = $2 AND current_quantity <= $3 RETURNING")

	t.Run("below occupancy", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(update).WithArgs(int64(1), int64(10), int64(1)).WillReturnRows(slotRows())
		mock.ExpectQuery(selectByID).WithArgs(int64(10)).WillReturnRows(slotRows(slotRow(10, 3, 2)))

		_, err := repo.UpdateCapacity(context.Background(), 10, 1)
		assert.ErrorIs(t, err, ErrCapacityBelowOccupancy)
	})

	t.Run("updated", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(update).WithArgs(int64(6), int64(10), int64(6)).WillReturnRows(slotRows(slotRow(10, 6, 2)))

		slot, err := repo.UpdateCapacity(context.Background(), 10, 6)
		require.NoError(t, err)
		assert.Equal(t, 6, slot.MaxQuantity)
	})
}

func TestRepository_Delete(t *testing.T) {
	remove := q("DELETE FROM test_service_slots WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM booking_details bd WHERE bd.slot_id = test_service_slots.id)")

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(remove).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 10))
	})

	t.Run("referenced by details", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(remove).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectByID).WithArgs(int64(10)).WillReturnRows(slotRows(slotRow(10, 3, 0)))

		assert.ErrorIs(t, repo.Delete(context.Background(), 10), ErrSlotInUse)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(remove).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectByID).WithArgs(int64(10)).WillReturnRows(slotRows())

		assert.ErrorIs(t, repo.Delete(context.Background(), 10), ErrSlotNotFound)
	})
}

func TestRepository_ListByServiceAndDate(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(q("FROM test_service_slots WHERE ") + ".*" + q("ORDER BY shift DESC, id ASC")).
		WillReturnRows(slotRows(slotRow(1, 3, 0), slotRow(2, 3, 1)))

	slots, err := repo.ListByServiceAndDate(context.Background(), 3, day)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, int64(2), slots[1].ID)
}
