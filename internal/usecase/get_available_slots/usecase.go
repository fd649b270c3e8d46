package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// UseCase use case для получения свободных слотов на дату
type UseCase struct {
	reservationRepo ReservationRepository
	cache           AvailabilityCache
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	cache AvailabilityCache,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		cache:           cache,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.NormalizeDate(req.Date)
	uc.logger.Info("GetAvailableSlots: date=%s", date.Format(domain.DateFormat))

	// 2. Прошедшие и закрытые даты
	today := domain.DateOf(uc.timeProvider.Now(), uc.settings.Location)
	if isClosed(date, today, uc.settings.BlockedDates) {
		uc.logger.Info("GetAvailableSlots: date %s is closed for booking", date.Format(domain.DateFormat))
		return &Response{Date: date, Slots: []string{}, Closed: true}, nil
	}

	// 3. Кэш; версия даты фиксируется до чтения из БД
	cached, version, found, cacheErr := uc.cache.Get(ctx, date)
	if cacheErr != nil {
		uc.logger.Warn("GetAvailableSlots: cache read failed for %s: %v", date.Format(domain.DateFormat), cacheErr)
	} else if found {
		return &Response{Date: date, Slots: cached}, nil
	}

	// 4. Активные бронирования на дату
	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationFilter{
		Date:     &date,
		Statuses: []domain.ReservationStatus{domain.StatusPending, domain.StatusConfirmed},
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 5. Каталог минус занятые часовые единицы
	occupied, err := domain.OccupiedHourUnits(reservations)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: stored reservation has invalid slot: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	slots := make([]string, 0)
	for _, label := range uc.settings.Catalog.Labels() {
		overlaps, err := domain.OverlapsAny(label, occupied)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog label %q: %v", ErrInternal, label, err)
		}
		if !overlaps {
			slots = append(slots, label)
		}
	}

	if cacheErr == nil {
		if err := uc.cache.Set(ctx, date, version, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache write failed for %s: %v", date.Format(domain.DateFormat), err)
		}
	}

	uc.logger.Info("GetAvailableSlots: %d of %d slots free on %s",
		len(slots), len(uc.settings.Catalog.Labels()), date.Format(domain.DateFormat))

	return &Response{Date: date, Slots: slots}, nil
}
