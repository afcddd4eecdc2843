package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-LabBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LabBookingService/pkg/psqlbuilder"
)

const table = "test_service_slots"

var columns = []string{
	"id",
	"test_service_id",
	"slot_date",
	"shift",
	"max_quantity",
	"current_quantity",
	"created_at",
	"updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repository репозиторий слотов лабораторных услуг.
// Счётчик занятости меняется только через IncrementIfAvailable и DecrementIfReserved,
// каждый из которых выполняется одним условным UPDATE.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот с явно заданной вместимостью
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("test_service_id", "slot_date", "shift", "max_quantity", "current_quantity").
		Values(slot.TestServiceID, domain.DateOnly(slot.SlotDate), slot.Shift, slot.MaxQuantity, 0).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case pgerr.IsUniqueViolation(err):
			return nil, ErrSlotAlreadyExists
		case pgerr.IsForeignKeyViolation(err):
			return nil, ErrTestServiceNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// InsertIfAbsent создает слот для ключа (услуга, дата, смена), если его ещё нет.
// Конкурентные вызовы с одним ключом не создают дубликатов: уникальное ограничение
// test_service_slots_key отбрасывает лишние вставки, и проигравший читает существующую строку.
// created = true, если слот был создан этим вызовом.
func (r *Repository) InsertIfAbsent(ctx context.Context, key domain.SlotKey, capacity int) (*domain.Slot, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("test_service_id", "slot_date", "shift", "max_quantity", "current_quantity").
		Values(key.TestServiceID, domain.DateOnly(key.SlotDate), key.Shift, capacity, 0).
		Suffix("ON CONFLICT ON CONSTRAINT test_service_slots_key DO NOTHING " + returning).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return created, true, nil
	}
	if pgerr.IsForeignKeyViolation(err) {
		return nil, false, ErrTestServiceNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%w: InsertIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	// Конфликт: слот уже существует
	existing, err := r.GetByKey(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetByKey получает слот по ключу (услуга, дата, смена)
func (r *Repository) GetByKey(ctx context.Context, key domain.SlotKey) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"test_service_id": key.TestServiceID,
			"slot_date":       domain.DateOnly(key.SlotDate),
			"shift":           key.Shift,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListByServiceAndDate получает слоты услуги на дату, упорядоченные по смене
func (r *Repository) ListByServiceAndDate(ctx context.Context, testServiceID int64, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"test_service_id": testServiceID, "slot_date": domain.DateOnly(date)}).
		OrderBy("shift DESC", "id ASC"). // morning раньше afternoon
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByServiceAndDate - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByServiceAndDate - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// IncrementIfAvailable атомарно занимает одно место в слоте.
// Проверка вместимости и инкремент выполняются одним UPDATE, поэтому из N конкурентных
// вызовов при K свободных местах успешны ровно K.
// Возвращает ErrSlotFull, если мест нет, и ErrSlotNotFound, если слота нет.
func (r *Repository) IncrementIfAvailable(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("current_quantity", squirrel.Expr("current_quantity + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("current_quantity < max_quantity").
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementIfAvailable - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: IncrementIfAvailable - execute update: %v", ErrExecQuery, err)
	}

	// Ни одна строка не обновлена: слота нет или он заполнен
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrSlotFull
}

// DecrementIfReserved атомарно освобождает одно место в слоте.
// Если слот уже пуст, счётчик не меняется и released = false.
func (r *Repository) DecrementIfReserved(ctx context.Context, id int64) (*domain.Slot, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("current_quantity", squirrel.Expr("current_quantity - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("current_quantity > 0").
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: DecrementIfReserved - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return slot, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%w: DecrementIfReserved - execute update: %v", ErrExecQuery, err)
	}

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpdateCapacity меняет максимальную вместимость слота.
// Новая вместимость не может быть меньше текущей занятости (проверка в том же UPDATE).
func (r *Repository) UpdateCapacity(ctx context.Context, id int64, maxQuantity int) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("max_quantity", maxQuantity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.LtOrEq{"current_quantity": maxQuantity}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateCapacity - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: UpdateCapacity - execute update: %v", ErrExecQuery, err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrCapacityBelowOccupancy
}

// Delete удаляет слот, если на него не ссылается ни одна запись
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		Where("NOT EXISTS (SELECT 1 FROM booking_details bd WHERE bd.slot_id = test_service_slots.id)").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return ErrSlotInUse
		}
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrSlotInUse
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSlot сканирует строку в слот; ошибки возвращаются без обёртки,
// чтобы вызывающий мог распознать sql.ErrNoRows и ошибки PostgreSQL
func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.TestServiceID,
		&slot.SlotDate,
		&slot.Shift,
		&slot.MaxQuantity,
		&slot.CurrentQuantity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.SlotDate = domain.DateOnly(slot.SlotDate)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}
