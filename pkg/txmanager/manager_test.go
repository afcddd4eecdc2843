package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) ExecContext(context.Context, string, ...any) (sql.Result, error) { return nil, nil }
func (t *fakeTx) QueryContext(context.Context, string, ...any) (*sql.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRowContext(context.Context, string, ...any) *sql.Row        { return nil }

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	opts     *sql.TxOptions
	begins   int
	beginErr error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	b.opts = opts
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestDoCommitsOnSuccess(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
	assert.Equal(t, sql.LevelReadCommitted, b.opts.Isolation)
}

func TestDoRollsBackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)
	boom := errors.New("boom")

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, b.tx.committed)
	assert.True(t, b.tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, b.opts.Isolation)
}

func TestDoRollsBackOnPanic(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.True(t, b.tx.rolledBack)
}

func TestNestedDoReusesTransaction(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, b.begins)
}

func TestBeginAndCommitErrors(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{beginErr: errors.New("no conn")})
	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBeginTx)

	b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	m = NewTransactionManager(b)
	err = m.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommitTx)
	assert.True(t, b.opts.ReadOnly)
}
