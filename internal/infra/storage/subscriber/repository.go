package subscriber

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotLottery/pkg/psqlbuilder"
)

const tableName = "subscribers"

// Repository реестр известных подписок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Add добавляет подписку; повторное добавление обновляет метку
func (r *Repository) Add(ctx context.Context, subscriber *domain.Subscriber) (*domain.Subscriber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("subscription_id", "label").
		Values(subscriber.SubscriptionID, subscriber.Label).
		Suffix("ON CONFLICT (subscription_id) DO UPDATE SET label = EXCLUDED.label RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Add - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&subscriber.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Add - execute insert: %w", ErrExecQuery, err)
	}

	return subscriber, nil
}

// Remove удаляет подписку из реестра
func (r *Repository) Remove(ctx context.Context, subscriptionID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"subscription_id": subscriptionID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Remove - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Remove - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Remove - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSubscriberNotFound
	}

	return nil
}

// Exists проверяет наличие подписки в реестре
func (r *Repository) Exists(ctx context.Context, subscriptionID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"subscription_id": subscriptionID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %w", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: Exists - scan row: %w", ErrScanRow, err)
	}

	return exists, nil
}

// List возвращает все подписки реестра
func (r *Repository) List(ctx context.Context) ([]*domain.Subscriber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("subscription_id", "label", "created_at").
		From(tableName).
		OrderBy("subscription_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	subscribers := make([]*domain.Subscriber, 0)
	for rows.Next() {
		var s domain.Subscriber
		var createdAt sql.NullTime
		if err := rows.Scan(&s.SubscriptionID, &s.Label, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		s.CreatedAt = createdAt.Time
		subscribers = append(subscribers, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return subscribers, nil
}
