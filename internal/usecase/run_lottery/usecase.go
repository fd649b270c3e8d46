package run_lottery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	lotteryRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/lottery"
	"github.com/m04kA/SMC-SlotLottery/internal/integrations/broker"
	"github.com/m04kA/SMC-SlotLottery/internal/integrations/notifier"
)

// UseCase use case распределения заявок pending на дату
type UseCase struct {
	reservationRepo ReservationRepository
	runStore        RunStore
	notifier        Notifier
	publisher       EventPublisher
	cache           AvailabilityCache
	metrics         MetricsRecorder
	txManager       TransactionManager
	timeProvider    TimeProvider
	shuffler        domain.Shuffler
	limits          domain.Limits
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	runStore RunStore,
	notifier Notifier,
	publisher EventPublisher,
	cache AvailabilityCache,
	metrics MetricsRecorder,
	txManager TransactionManager,
	shuffler domain.Shuffler,
	limits domain.Limits,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		runStore:        runStore,
		notifier:        notifier,
		publisher:       publisher,
		cache:           cache,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		shuffler:        shuffler,
		limits:          limits,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет лотерею на дату
//
// Маркер, статусы и запись журнала фиксируются одной транзакцией: при ошибке
// откатывается все, и следующий тик планировщика повторит запуск.
// Уведомления, событие и сброс кэша выполняются только после коммита.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RunLottery: target=%s, trigger=%s", req.TargetDate.Format(domain.DateFormat), req.Trigger)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RunLottery: validation failed: %v", err)
		return nil, err
	}

	targetDate := domain.NormalizeDate(req.TargetDate)
	resp := &Response{TargetDate: targetDate}

	// 2. Распределение в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Маркер запуска
		switch req.Marker {
		case MarkerAdvance:
			err := uc.runStore.AdvanceMarker(txCtx, req.MarkerDate)
			if errors.Is(err, lotteryRepo.ErrMarkerNotAdvanced) {
				return ErrAlreadyRan
			}
			if err != nil {
				return fmt.Errorf("%w: advance marker: %w", ErrPersistence, err)
			}
		case MarkerSet:
			if err := uc.runStore.SetMarker(txCtx, req.MarkerDate); err != nil {
				return fmt.Errorf("%w: set marker: %w", ErrPersistence, err)
			}
		}

		// 2.2. Блокировка даты: допуски на эту дату ждут коммита
		if err := uc.reservationRepo.LockDate(txCtx, targetDate); err != nil {
			return fmt.Errorf("%w: lock date: %w", ErrPersistence, err)
		}

		// 2.3. Все бронирования даты
		reservations, err := uc.reservationRepo.List(txCtx, domain.ReservationFilter{Date: &targetDate})
		if err != nil {
			return fmt.Errorf("%w: list reservations: %w", ErrPersistence, err)
		}

		// 2.4. Перемешивание и распределение мест
		plan := domain.Allocate(reservations, uc.limits, uc.shuffler)
		resp.AvailableSlots = plan.AvailableSlots
		if plan.IsEmpty() {
			return nil
		}

		// 2.5. Пакетное обновление статусов
		changes, err := statusChanges(plan)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if err := uc.reservationRepo.UpdateStatuses(txCtx, changes); err != nil {
			return fmt.Errorf("%w: update statuses: %w", ErrPersistence, err)
		}

		// 2.6. Запись в журнал запусков
		run := &domain.LotteryRun{
			ID:         uuid.NewString(),
			ExecutedAt: uc.timeProvider.Now().UTC(),
			TargetDate: targetDate,
			Trigger:    req.Trigger,
			Results:    plan.Results(),
		}
		if err := uc.runStore.AppendRun(txCtx, run); err != nil {
			return fmt.Errorf("%w: append run: %w", ErrPersistence, err)
		}

		resp.Run = run
		resp.Confirmed = requesterNames(plan.Confirmed)
		resp.Rejected = requesterNames(plan.Rejected)
		return nil
	})

	if errors.Is(err, ErrAlreadyRan) {
		uc.logger.Info("RunLottery: already ran for marker date %s, skipping", req.MarkerDate.Format(domain.DateFormat))
		uc.metrics.ObserveLotteryRun(string(req.Trigger), ResultSkipped)
		return nil, err
	}
	if err != nil {
		uc.logger.Error("RunLottery: target=%s failed, changes rolled back: %v", targetDate.Format(domain.DateFormat), err)
		uc.metrics.ObserveLotteryRun(string(req.Trigger), ResultError)
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return nil, err
	}

	if resp.NoOp() {
		uc.logger.Info("RunLottery: nothing to allocate for %s, available=%d",
			targetDate.Format(domain.DateFormat), resp.AvailableSlots)
		uc.metrics.ObserveLotteryRun(string(req.Trigger), ResultNoOp)
		return resp, nil
	}

	uc.logger.Info("RunLottery: run=%s target=%s confirmed=%d rejected=%d",
		resp.Run.ID, targetDate.Format(domain.DateFormat), len(resp.Confirmed), len(resp.Rejected))
	uc.metrics.ObserveLotteryRun(string(req.Trigger), ResultCompleted)
	uc.metrics.ObserveLotteryAllocations(len(resp.Confirmed), len(resp.Rejected))

	// 3. Уведомление с итогами
	uc.notifier.Send(ctx, notifier.FormatLotteryResult(targetDate, resp.Confirmed, resp.Rejected))

	// 4. Событие для внешних потребителей
	if err := uc.publisher.PublishLotteryCompleted(ctx, broker.NewLotteryCompletedEvent(resp.Run)); err != nil {
		uc.logger.Warn("RunLottery: failed to publish event for run=%s: %v", resp.Run.ID, err)
	}

	// 5. Сбрасываем кэш доступности даты
	if err := uc.cache.Invalidate(ctx, targetDate); err != nil {
		uc.logger.Warn("RunLottery: failed to invalidate availability cache for %s: %v",
			targetDate.Format(domain.DateFormat), err)
	}

	return resp, nil
}

func requesterNames(reservations []*domain.Reservation) []string {
	names := make([]string, 0, len(reservations))
	for _, r := range reservations {
		names = append(names, r.RequesterName)
	}
	return names
}
