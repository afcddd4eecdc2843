package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT id FROM test_service_slots", "select"},
		{"  insert into bookings (account_id) values ($1)", "insert"},
		{"UPDATE test_service_slots SET current_quantity = 1", "update"},
		{"DELETE FROM booking_details WHERE id = $1", "delete"},
		{"WITH x AS (SELECT 1) SELECT * FROM x", "with"},
		{"VACUUM", "other"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Operation(tt.query), tt.query)
	}
}

type fakeTx struct{}

func (fakeTx) ExecContext(context.Context, string, ...any) (sql.Result, error) { return nil, nil }
func (fakeTx) QueryContext(context.Context, string, ...any) (*sql.Rows, error) { return nil, nil }
func (fakeTx) QueryRowContext(context.Context, string, ...any) *sql.Row        { return nil }
func (fakeTx) Commit() error                                                   { return nil }
func (fakeTx) Rollback() error                                                 { return nil }

func TestGetExecutorPrefersTransaction(t *testing.T) {
	var db fakeTx
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(db), GetExecutor(ctx, db))

	tx := &fakeTx{}
	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}
