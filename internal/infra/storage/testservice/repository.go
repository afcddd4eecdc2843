package testservice

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

// Repository репозиторий каталога лабораторных услуг (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу по ID, включая удалённые
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TestService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price", "is_deleted").
		From("test_services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.TestService
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.Price,
		&service.IsDeleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTestServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// ListActive получает все неудалённые услуги
func (r *Repository) ListActive(ctx context.Context) ([]*domain.TestService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price", "is_deleted").
		From("test_services").
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.TestService, 0)
	for rows.Next() {
		var service domain.TestService
		if err := rows.Scan(&service.ID, &service.Name, &service.Price, &service.IsDeleted); err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		services = append(services, &service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}
