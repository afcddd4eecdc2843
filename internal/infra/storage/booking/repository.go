package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LabBookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями и их платежами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("account_id").
		Values(booking.AccountID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID без блокировки строки
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, "GetByID", id, false)
}

// GetByIDForUpdate получает бронирование и блокирует строку (FOR UPDATE) до конца транзакции,
// чтобы каскадное удаление и добавление записей в бронирование не выполнялись одновременно.
// Вызывается только внутри транзакции на запись.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, "GetByIDForUpdate", id, true)
}

func (r *Repository) getByID(ctx context.Context, op string, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "account_id", "created_at", "updated_at").
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.AccountID,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// ListByAccount получает бронирования аккаунта, новые первыми
func (r *Repository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "account_id", "created_at", "updated_at").
		From("bookings").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAccount - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAccount - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&booking.ID, &booking.AccountID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByAccount - scan row: %v", ErrScanRow, err)
		}
		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAccount - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// GetPaymentByBookingID получает платёж бронирования
func (r *Repository) GetPaymentByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "amount", "method", "status", "created_at").
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPaymentByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var payment domain.Payment
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPaymentByBookingID - scan payment: %v", ErrScanRow, err)
	}

	payment.CreatedAt = createdAt.Time

	return &payment, nil
}

// Delete удаляет бронирование; записи и платёж удаляются каскадом (ON DELETE CASCADE).
// Места в слотах освобождает вызывающий.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}
