package booking_detail

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-LabBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LabBookingService/pkg/psqlbuilder"
)

const table = "booking_details"

var columns = []string{
	"id",
	"booking_id",
	"test_service_id",
	"slot_id",
	"first_name",
	"last_name",
	"date_of_birth",
	"phone",
	"gender",
	"status",
	"created_at",
	"updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// terminalStatuses статусы, после которых запись не редактируется
var terminalStatuses = []string{
	string(domain.DetailStatusResultReady),
	string(domain.DetailStatusCancelled),
}

// Repository репозиторий записей на исследования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись. Место в слоте должно быть занято вызывающим в той же транзакции.
func (r *Repository) Create(ctx context.Context, detail *domain.BookingDetail) (*domain.BookingDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"booking_id",
			"test_service_id",
			"slot_id",
			"first_name",
			"last_name",
			"date_of_birth",
			"phone",
			"gender",
			"status",
		).
		Values(
			detail.BookingID,
			detail.TestServiceID,
			detail.SlotID,
			detail.Patient.FirstName,
			detail.Patient.LastName,
			domain.DateOnly(detail.Patient.DateOfBirth),
			detail.Patient.Phone,
			detail.Patient.Gender,
			detail.Status,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanDetail(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case pgerr.IsUniqueViolation(err):
			return nil, ErrDuplicatePatient
		case pgerr.IsForeignKeyViolation(err):
			return nil, fmt.Errorf("%w: %s", ErrInvalidReference, pgerr.Constraint(err))
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	detail, err := scanDetail(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingDetailNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan detail: %v", ErrScanRow, err)
	}

	return detail, nil
}

// ListByBooking получает все записи бронирования без блокировки строк
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingDetail, error) {
	return r.listByBooking(ctx, "ListByBooking", bookingID, false)
}

// ListByBookingForUpdate получает записи бронирования и блокирует их (FOR UPDATE)
// для каскадного удаления. Вызывается только внутри транзакции на запись.
func (r *Repository) ListByBookingForUpdate(ctx context.Context, bookingID int64) ([]*domain.BookingDetail, error) {
	return r.listByBooking(ctx, "ListByBookingForUpdate", bookingID, true)
}

func (r *Repository) listByBooking(ctx context.Context, op string, bookingID int64, forUpdate bool) ([]*domain.BookingDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	details := make([]*domain.BookingDetail, 0)
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return details, nil
}

// UpdateStatus меняет статус записи с from на to.
// Условие status = from делает переход атомарным: если статус уже изменили
// (например, повторная отмена), строка не обновляется и возвращается ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingDetailStatus) (*domain.BookingDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	detail, err := scanDetail(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return detail, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrStatusConflict
}

// UpdatePatient обновляет данные пациента записи в нетерминальном статусе
func (r *Repository) UpdatePatient(ctx context.Context, id int64, patient domain.Patient) (*domain.BookingDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("first_name", patient.FirstName).
		Set("last_name", patient.LastName).
		Set("date_of_birth", domain.DateOnly(patient.DateOfBirth)).
		Set("phone", patient.Phone).
		Set("gender", patient.Gender).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": terminalStatuses}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePatient - build update query: %v", ErrBuildQuery, err)
	}

	detail, err := scanDetail(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return detail, nil
	}
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrDuplicatePatient
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: UpdatePatient - execute update: %v", ErrExecQuery, err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrNotEditable
}

// Delete удаляет запись и возвращает её состояние на момент удаления,
// чтобы вызывающий мог решить, нужно ли освобождать место в слоте
func (r *Repository) Delete(ctx context.Context, id int64) (*domain.BookingDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	detail, err := scanDetail(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingDetailNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return detail, nil
}

// SumPriceByBooking суммирует цены услуг всех записей бронирования
func (r *Repository) SumPriceByBooking(ctx context.Context, bookingID int64) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(ts.price), 0)").
		From("booking_details bd").
		Join("test_services ts ON ts.id = bd.test_service_id").
		Where(squirrel.Eq{"bd.booking_id": bookingID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SumPriceByBooking - build select query: %v", ErrBuildQuery, err)
	}

	var total float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: SumPriceByBooking - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetail(row rowScanner) (*domain.BookingDetail, error) {
	var detail domain.BookingDetail
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&detail.ID,
		&detail.BookingID,
		&detail.TestServiceID,
		&detail.SlotID,
		&detail.Patient.FirstName,
		&detail.Patient.LastName,
		&detail.Patient.DateOfBirth,
		&detail.Patient.Phone,
		&detail.Patient.Gender,
		&detail.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	detail.Patient.DateOfBirth = domain.DateOnly(detail.Patient.DateOfBirth)
	detail.CreatedAt = createdAt.Time
	detail.UpdatedAt = updatedAt.Time

	return &detail, nil
}
