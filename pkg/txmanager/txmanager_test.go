package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	commitErrs []error
	committed  int
	rolledBack int
}

func (t *fakeTx) Commit() error {
	t.committed++
	if len(t.commitErrs) > 0 {
		err := t.commitErrs[0]
		t.commitErrs = t.commitErrs[1:]
		return err
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack++
	return nil
}

type fakeBeginner struct {
	tx      *fakeTx
	begins  int
	lastOpt *sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	b.lastOpt = opts
	return b.tx, nil
}

func TestDoSerializable_CommitsOnSuccess(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	var sawTx bool
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	assert.Equal(t, 1, b.tx.committed)
	assert.Equal(t, 0, b.tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, b.lastOpt.Isolation)
}

func TestDoSerializable_RollsBackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)
	boom := errors.New("boom")

	err := m.DoSerializable(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b.tx.committed)
	assert.Equal(t, 1, b.tx.rolledBack)
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{commitErrs: []error{&pq.Error{Code: serializationFailure}}}}
	m := NewTransactionManager(b)

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, b.begins)
}

func TestDo_JoinsOuterTransaction(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, b.begins)
}

func TestDoSerializable_RetriesWrappedStatementFailure(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)
	errExecQuery := errors.New("repository: failed to execute query")
	errPersistence := errors.New("usecase: persistence failure")

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		driverErr := &pq.Error{Code: serializationFailure, Message: "could not serialize access due to concurrent update"}
		repoErr := fmt.Errorf("%w: LockDate - execute lock: %w", errExecQuery, driverErr)
		return fmt.Errorf("%w: lock date: %w", errPersistence, repoErr)
	})

	assert.ErrorIs(t, err, errPersistence)
	assert.ErrorIs(t, err, errExecQuery)
	assert.Equal(t, DefaultMaxRetries+1, calls)
	assert.Equal(t, DefaultMaxRetries+1, b.begins)
	assert.Equal(t, DefaultMaxRetries+1, b.tx.rolledBack)
	assert.Equal(t, 0, b.tx.committed)
}

func TestDo_DoesNotRetryOtherErrors(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	calls := 0
	err := m.Do(context.Background(), func(context.Context) error {
		calls++
		return fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, sql.LevelDefault, b.lastOpt.Isolation)
}
