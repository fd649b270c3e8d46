package lottery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotLottery/pkg/psqlbuilder"
)

const (
	markerTable = "lottery_run_marker"
	runsTable   = "lottery_runs"

	// markerID единственная строка маркера
	markerID = 1
)

// Repository хранит маркер последнего запуска и журнал запусков лотереи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория лотереи
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// AdvanceMarker переводит маркер на runDate, если он указывает на другую дату (compare-and-set)
// Если маркер уже равен runDate, возвращает ErrMarkerNotAdvanced и ничего не меняет.
// Вызывается в транзакции лотереи: при откате маркер возвращается к прежнему значению.
func (r *Repository) AdvanceMarker(ctx context.Context, runDate time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	date := domain.NormalizeDate(runDate).Format(domain.DateFormat)

	query, args, err := psqlbuilder.Update(markerTable).
		Set("last_run_date", date).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": markerID}).
		Where(squirrel.Expr("last_run_date IS DISTINCT FROM ?::date", date)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AdvanceMarker - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AdvanceMarker - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AdvanceMarker - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMarkerNotAdvanced
	}

	return nil
}

// SetMarker безусловно записывает дату в маркер
func (r *Repository) SetMarker(ctx context.Context, runDate time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(markerTable).
		Set("last_run_date", domain.NormalizeDate(runDate).Format(domain.DateFormat)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": markerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetMarker - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetMarker - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetMarker - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMarkerMissing
	}

	return nil
}

// GetMarker возвращает дату последнего запуска, nil если запусков не было
func (r *Repository) GetMarker(ctx context.Context) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("last_run_date").
		From(markerTable).
		Where(squirrel.Eq{"id": markerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetMarker - build select query: %w", ErrBuildQuery, err)
	}

	var lastRun sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&lastRun)
	if err == sql.ErrNoRows {
		return nil, ErrMarkerMissing
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMarker - scan marker: %w", ErrScanRow, err)
	}

	if !lastRun.Valid {
		return nil, nil
	}
	date := domain.NormalizeDate(lastRun.Time)
	return &date, nil
}

// AppendRun добавляет запись в журнал запусков
func (r *Repository) AppendRun(ctx context.Context, run *domain.LotteryRun) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	results := run.Results
	if results == nil {
		results = []domain.LotteryResult{}
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("%w: AppendRun - marshal results: %w", ErrEncodeResults, err)
	}

	query, args, err := psqlbuilder.Insert(runsTable).
		Columns("id", "executed_at", "target_date", "trigger", "results").
		Values(
			run.ID,
			run.ExecutedAt,
			domain.NormalizeDate(run.TargetDate).Format(domain.DateFormat),
			string(run.Trigger),
			string(payload),
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendRun - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendRun - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListRuns возвращает последние записи журнала, новые первыми
func (r *Repository) ListRuns(ctx context.Context, limit uint64) ([]*domain.LotteryRun, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "executed_at", "target_date", "trigger", "results").
		From(runsTable).
		OrderBy("executed_at DESC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRuns - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRuns - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	runs := make([]*domain.LotteryRun, 0)
	for rows.Next() {
		var run domain.LotteryRun
		var trigger string
		var payload []byte

		if err := rows.Scan(&run.ID, &run.ExecutedAt, &run.TargetDate, &trigger, &payload); err != nil {
			return nil, fmt.Errorf("%w: ListRuns - scan row: %w", ErrScanRow, err)
		}
		if err := json.Unmarshal(payload, &run.Results); err != nil {
			return nil, fmt.Errorf("%w: ListRuns - decode results of run %s: %w", ErrScanRow, run.ID, err)
		}

		run.Trigger = domain.LotteryTrigger(trigger)
		run.TargetDate = domain.NormalizeDate(run.TargetDate)
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRuns - rows error: %w", ErrScanRow, err)
	}

	return runs, nil
}
