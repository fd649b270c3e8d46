package submit_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	lotteryRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/lottery"
	reservationRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/reservation"
)

// UseCase use case допуска заявки на бронирование
type UseCase struct {
	reservationRepo ReservationRepository
	markerStore     LotteryMarker
	cache           AvailabilityCache
	metrics         MetricsRecorder
	txManager       TransactionManager
	timeProvider    TimeProvider
	policy          Policy
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	markerStore LotteryMarker,
	cache AvailabilityCache,
	metrics MetricsRecorder,
	txManager TransactionManager,
	policy Policy,
	logger Logger,
) *UseCase {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		markerStore:     markerStore,
		cache:           cache,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		policy:          policy,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет допуск заявки
// Решение и вставка выполняются в одной транзакции под advisory-блокировкой даты.
// Уровень READ COMMITTED: чтение после блокировки видит все закоммиченные допуски.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveAdmission(outcomeOf(resp, err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	date := domain.NormalizeDate(req.Date)
	uc.logger.Info("SubmitReservation: requester=%s, subscriber=%t, date=%s, slot=%s",
		req.Identity.Name, req.Identity.IsSubscriber, date.Format(domain.DateFormat), req.TimeSlot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом и не закрыта
	today := domain.DateOf(uc.timeProvider.Now(), uc.policy.Location)
	if err := validateDate(date, today, uc.policy.BlockedDates); err != nil {
		uc.logger.Warn("SubmitReservation: date validation failed: %v", err)
		return nil, err
	}

	// 3. Заявка в лотерею возможна только на дату позже сегодняшней
	if !req.Identity.IsSubscriber && lotteryClosed(date, today, nil) {
		uc.logger.Warn("SubmitReservation: lottery closed for %s, requester=%s", date.Format(domain.DateFormat), req.Identity.Name)
		return nil, fmt.Errorf("%w: %s", ErrLotteryClosed, date.Format(domain.DateFormat))
	}

	// 4. Слот из каталога
	if err := validateTimeSlot(req.TimeSlot, uc.policy.Catalog); err != nil {
		uc.logger.Warn("SubmitReservation: time slot validation failed: %v", err)
		return nil, err
	}

	var result *domain.Reservation

	// 5. Решение и вставка в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 5.1. Блокировка даты: параллельные допуски и лотерея на эту дату ждут
		if err := uc.reservationRepo.LockDate(txCtx, date); err != nil {
			uc.logger.Error("SubmitReservation: failed to lock date %s: %v", date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: lock date: %w", ErrPersistence, err)
		}

		// 5.2. Плановый запуск лотереи на дату еще не прошел
		if !req.Identity.IsSubscriber {
			lastRun, err := uc.markerStore.GetMarker(txCtx)
			if err != nil && !errors.Is(err, lotteryRepo.ErrMarkerMissing) {
				uc.logger.Error("SubmitReservation: failed to read lottery marker: %v", err)
				return fmt.Errorf("%w: read lottery marker: %w", ErrPersistence, err)
			}
			if lotteryClosed(date, today, lastRun) {
				uc.logger.Warn("SubmitReservation: lottery for %s already ran (marker=%s), requester=%s",
					date.Format(domain.DateFormat), lastRun.Format(domain.DateFormat), req.Identity.Name)
				return fmt.Errorf("%w: %s", ErrLotteryClosed, date.Format(domain.DateFormat))
			}
		}

		// 5.3. Свежий список бронирований даты
		reservations, err := uc.reservationRepo.List(txCtx, domain.ReservationFilter{Date: &date})
		if err != nil {
			uc.logger.Error("SubmitReservation: failed to list reservations: %v", err)
			return fmt.Errorf("%w: list reservations: %w", ErrPersistence, err)
		}

		// 5.4. Одна заявка на дату от одного заявителя
		if existing := findDuplicate(reservations, req.Identity.Name); existing != nil {
			uc.logger.Warn("SubmitReservation: requester=%s already has reservation id=%d (%s) on %s",
				req.Identity.Name, existing.ID, existing.Status, date.Format(domain.DateFormat))
			return ErrDuplicateRequest
		}

		// 5.5. Пересечение с активными бронированиями блокирует заявку
		occupied, err := domain.OccupiedHourUnits(reservations)
		if err != nil {
			uc.logger.Error("SubmitReservation: stored reservation has invalid slot: %v", err)
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		overlaps, err := domain.OverlapsAny(req.TimeSlot, occupied)
		if err != nil {
			return err
		}
		if overlaps {
			uc.logger.Warn("SubmitReservation: slot %s overlaps active reservation on %s",
				req.TimeSlot, date.Format(domain.DateFormat))
			return ErrSlotConflict
		}

		// 5.6. Статус: подписчик подтверждается сразу в пределах квоты, остальные в лотерею
		status := domain.StatusPending
		if req.Identity.IsSubscriber {
			occ := domain.ComputeOccupancy(reservations)
			if !occ.AdmitsSubscriber(uc.policy.Limits) {
				uc.logger.Warn("SubmitReservation: capacity exceeded on %s, confirmed=%d/%d, subscribers=%d/%d",
					date.Format(domain.DateFormat),
					occ.ConfirmedCount, uc.policy.Limits.DailyCapacity,
					occ.ConfirmedSubscriberCount, uc.policy.Limits.SubscriberQuota)
				return ErrCapacityExceeded
			}
			status = domain.StatusConfirmed
		}

		// 5.7. Сохраняем заявку
		accountKind := req.Identity.AccountKind
		if accountKind == "" {
			accountKind = domain.AccountKindStandard
		}
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			RequesterName:  req.Identity.Name,
			ExternalID:     req.Identity.ExternalID,
			SubscriptionID: req.Identity.SubscriptionID,
			AccountKind:    accountKind,
			IsSubscriber:   req.Identity.IsSubscriber,
			Date:           date,
			TimeSlot:       req.TimeSlot,
			Status:         status,
		})
		if errors.Is(err, reservationRepo.ErrDuplicate) {
			uc.logger.Warn("SubmitReservation: unique violation for requester=%s on %s",
				req.Identity.Name, date.Format(domain.DateFormat))
			return ErrDuplicateRequest
		}
		if err != nil {
			uc.logger.Error("SubmitReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: create reservation: %w", ErrPersistence, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if isAdmissionError(err) {
			return nil, err
		}
		uc.logger.Error("SubmitReservation: transaction failed: %v", err)
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return nil, err
	}

	// 6. Сбрасываем кэш доступности даты
	if err := uc.cache.Invalidate(ctx, date); err != nil {
		uc.logger.Warn("SubmitReservation: failed to invalidate availability cache for %s: %v",
			date.Format(domain.DateFormat), err)
	}

	uc.logger.Info("SubmitReservation: created reservation id=%d status=%s", result.ID, result.Status)

	return &Response{
		Reservation: result,
		Queued:      result.IsPending(),
	}, nil
}

// isAdmissionError ошибки решения о допуске (не сбои хранилища)
func isAdmissionError(err error) bool {
	return errors.Is(err, ErrDuplicateRequest) ||
		errors.Is(err, ErrSlotConflict) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrLotteryClosed) ||
		errors.Is(err, domain.ErrInvalidSlotFormat)
}

func outcomeOf(resp *Response, err error) string {
	switch {
	case err == nil && resp.Queued:
		return OutcomePending
	case err == nil:
		return OutcomeConfirmed
	case errors.Is(err, ErrDuplicateRequest):
		return OutcomeDuplicate
	case errors.Is(err, ErrSlotConflict):
		return OutcomeConflict
	case errors.Is(err, ErrCapacityExceeded):
		return OutcomeCapacity
	case errors.Is(err, ErrLotteryClosed):
		return OutcomeClosed
	case errors.Is(err, ErrPersistence):
		return OutcomeError
	default:
		return OutcomeInvalid
	}
}
