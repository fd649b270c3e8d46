package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotLottery/pkg/psqlbuilder"
)

const (
	tableName = "reservations"

	// uniqueViolation код ошибки Postgres при нарушении уникального ограничения
	uniqueViolation = "23505"

	// lockKeyPrefix префикс ключа advisory-блокировки даты
	lockKeyPrefix = "reservations:"
)

var columns = []string{
	"id",
	"requester_name",
	"external_id",
	"subscription_id",
	"account_kind",
	"is_subscriber",
	"reservation_date",
	"time_slot",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockDate берет транзакционную advisory-блокировку на дату
// Блокировка снимается при завершении транзакции, поэтому вызывать только внутри неё.
// Все операции, читающие занятость даты и пишущие по ней, должны брать эту блокировку.
func (r *Repository) LockDate(ctx context.Context, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockDate - called outside of transaction", ErrExecQuery)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := lockKeyPrefix + domain.NormalizeDate(date).Format(domain.DateFormat)
	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtext(?))", key)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockDate - build query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockDate - execute lock: %w", ErrExecQuery, err)
	}

	return nil
}

// Create создает новое бронирование
// Нарушение уникальности (заявитель, дата) возвращается как ErrDuplicate
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"requester_name",
			"external_id",
			"subscription_id",
			"account_kind",
			"is_subscriber",
			"reservation_date",
			"time_slot",
			"status",
		).
		Values(
			reservation.RequesterName,
			reservation.ExternalID,
			reservation.SubscriptionID,
			reservation.AccountKind,
			reservation.IsSubscriber,
			domain.NormalizeDate(reservation.Date).Format(domain.DateFormat),
			reservation.TimeSlot,
			string(reservation.Status),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&createdAt,
		&updatedAt,
	)

	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	reservation.Date = domain.NormalizeDate(reservation.Date)
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return reservation, nil
}

// List возвращает бронирования по фильтру
// Сортировка: по дате, затем по id (порядок подачи заявок)
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("reservation_date ASC", "id ASC")

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"reservation_date": domain.NormalizeDate(*filter.Date).Format(domain.DateFormat)})
	}
	if filter.RequesterName != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_name": *filter.RequesterName})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// UpdateStatuses атомарно меняет статусы набора бронирований одним запросом
// Обновляются только заявки в статусе pending; если затронуты не все строки,
// возвращается ErrStatusConflict (вызывающая транзакция должна откатиться)
func (r *Repository) UpdateStatuses(ctx context.Context, statuses map[int64]domain.ReservationStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, 0, len(statuses))
	caseBuilder := squirrel.Case("id")
	for id, status := range statuses {
		if !domain.StatusPending.CanTransitionTo(status) {
			return fmt.Errorf("%w: UpdateStatuses - id=%d: %w", ErrStatusConflict, id, domain.ErrInvalidTransition)
		}
		ids = append(ids, id)
		caseBuilder = caseBuilder.When(squirrel.Expr("?", id), squirrel.Expr("?", string(status)))
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", caseBuilder).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": string(domain.StatusPending)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatuses - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatuses - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatuses - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected != int64(len(ids)) {
		return fmt.Errorf("%w: UpdateStatuses - updated %d of %d", ErrStatusConflict, rowsAffected, len(ids))
	}

	return nil
}

// Delete физически удаляет бронирование, совпадающее с критериями отмены
// Возвращает количество удаленных строк
func (r *Repository) Delete(ctx context.Context, match domain.ReservationMatch) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{
			"requester_name":   match.RequesterName,
			"external_id":      match.ExternalID,
			"reservation_date": domain.NormalizeDate(match.Date).Format(domain.DateFormat),
			"time_slot":        match.TimeSlot,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// Summary возвращает количество не отклоненных бронирований по датам
func (r *Repository) Summary(ctx context.Context) ([]domain.DateSummary, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("reservation_date", "COUNT(*)").
		From(tableName).
		Where(squirrel.NotEq{"status": string(domain.StatusRejected)}).
		GroupBy("reservation_date").
		OrderBy("reservation_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Summary - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Summary - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	summary := make([]domain.DateSummary, 0)
	for rows.Next() {
		var item domain.DateSummary
		if err := rows.Scan(&item.Date, &item.Count); err != nil {
			return nil, fmt.Errorf("%w: Summary - scan row: %w", ErrScanRow, err)
		}
		item.Date = domain.NormalizeDate(item.Date)
		summary = append(summary, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Summary - rows error: %w", ErrScanRow, err)
	}

	return summary, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var reservation domain.Reservation
		var subscriptionID sql.NullString
		var status string
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&reservation.ID,
			&reservation.RequesterName,
			&reservation.ExternalID,
			&subscriptionID,
			&reservation.AccountKind,
			&reservation.IsSubscriber,
			&reservation.Date,
			&reservation.TimeSlot,
			&status,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %w", ErrScanRow, err)
		}

		reservation.Status, err = domain.ParseReservationStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - id=%d: %w", ErrScanRow, reservation.ID, err)
		}
		if subscriptionID.Valid {
			reservation.SubscriptionID = &subscriptionID.String
		}
		reservation.Date = domain.NormalizeDate(reservation.Date)
		reservation.CreatedAt = createdAt.Time
		reservation.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

// isUniqueViolation проверяет, что ошибка вызвана нарушением уникального ограничения
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
