package reservation

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotLottery/pkg/txmanager"
)

const lockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

var targetDate = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestLockDate_OutsideTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	err := repo.LockDate(context.Background(), targetDate)

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockDate_UsesDateKey(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).
		WithArgs("reservations:2026-10-20").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.LockDate(dbmetrics.WithTx(context.Background(), tx), targetDate))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockDate_SerializationFailureIsRetried(t *testing.T) {
	db, mock := newMock(t)
	wrapped := dbmetrics.Wrap(db, nil)
	repo := NewRepository(wrapped)
	txMgr := txmanager.NewTransactionManager(wrapped)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).
		WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	attempts := 0
	err := txMgr.DoSerializable(context.Background(), func(txCtx context.Context) error {
		attempts++
		return repo.LockDate(txCtx, targetDate)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	created, err := repo.Create(context.Background(), &domain.Reservation{
		RequesterName: "alice",
		ExternalID:    "ext-1",
		AccountKind:   domain.AccountKindStandard,
		Date:          targetDate,
		TimeSlot:      "10:00-12:00",
		Status:        domain.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Reservation{
		RequesterName: "alice",
		ExternalID:    "ext-1",
		Date:          targetDate,
		TimeSlot:      "10:00-12:00",
		Status:        domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ByDate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), "alice", "ext-1", "sub-1", "standard", true, targetDate, "10:00-12:00", "confirmed", now, now).
		AddRow(int64(2), "bob", "ext-2", nil, "standard", false, targetDate, "13:00-14:00", "pending", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE reservation_date = $1 ORDER BY reservation_date ASC, id ASC")).
		WithArgs("2026-10-20").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), domain.ReservationFilter{Date: &targetDate})

	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].SubscriptionID)
	assert.Equal(t, "sub-1", *list[0].SubscriptionID)
	assert.Equal(t, domain.StatusConfirmed, list[0].Status)
	assert.Nil(t, list[1].SubscriptionID)
	assert.Equal(t, domain.StatusPending, list[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_UnknownStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "alice", "ext-1", nil, "standard", false, targetDate, "10:00-12:00", "cancelled", now, now))

	_, err := repo.List(context.Background(), domain.ReservationFilter{})

	assert.ErrorIs(t, err, ErrScanRow)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatuses(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "all rows updated", affected: 2},
		{name: "row changed concurrently", affected: 1, wantErr: ErrStatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewRepository(db)

			mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = CASE id WHEN")).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.UpdateStatuses(context.Background(), map[int64]domain.ReservationStatus{
				1: domain.StatusConfirmed,
				2: domain.StatusRejected,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateStatuses_RejectsInvalidTransition(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	err := repo.UpdateStatuses(context.Background(), map[int64]domain.ReservationStatus{1: domain.StatusPending})

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reservations WHERE")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Delete(context.Background(), domain.ReservationMatch{
		RequesterName: "alice",
		ExternalID:    "ext-1",
		Date:          targetDate,
		TimeSlot:      "10:00-12:00",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
