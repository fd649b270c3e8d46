package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	lotteryRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/lottery"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

const (
	// DefaultRunsLimit количество записей журнала по умолчанию
	DefaultRunsLimit = 20
	// MaxRunsLimit максимальное количество записей журнала за запрос
	MaxRunsLimit = 200
)

// Service сервис для чтения и отмены бронирований
type Service struct {
	reservationRepo ReservationRepository
	runRepo         RunRepository
	cache           AvailabilityCache
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	runRepo RunRepository,
	cache AvailabilityCache,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		reservationRepo: reservationRepo,
		runRepo:         runRepo,
		cache:           cache,
		location:        location,
		timeProvider:    realTime{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Cancel удаляет бронирование заявителя на дату и слот
// Удаляется запись в любом статусе, после этого заявитель может подать новую заявку на дату
func (s *Service) Cancel(ctx context.Context, identity domain.Identity, req *models.CancelRequest) error {
	s.logger.Info("Cancel: requester=%s, date=%s, slot=%s",
		identity.Name, req.Date.Format(domain.DateFormat), req.TimeSlot)

	if strings.TrimSpace(identity.Name) == "" || req.Date.IsZero() || strings.TrimSpace(req.TimeSlot) == "" {
		s.logger.Warn("Cancel: invalid input from requester=%s", identity.Name)
		return fmt.Errorf("%w: date and time slot are required", ErrInvalidInput)
	}

	date := domain.NormalizeDate(req.Date)
	deleted, err := s.reservationRepo.Delete(ctx, domain.ReservationMatch{
		RequesterName: identity.Name,
		ExternalID:    identity.ExternalID,
		Date:          date,
		TimeSlot:      req.TimeSlot,
	})
	if err != nil {
		s.logger.Error("Cancel: repository error for requester=%s: %v", identity.Name, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if deleted == 0 {
		s.logger.Warn("Cancel: no reservation for requester=%s on %s %s",
			identity.Name, date.Format(domain.DateFormat), req.TimeSlot)
		return ErrNotFound
	}

	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.Warn("Cancel: failed to invalidate availability cache for %s: %v", date.Format(domain.DateFormat), err)
	}

	s.logger.Info("Cancel: deleted %d reservation(s) of requester=%s on %s", deleted, identity.Name, date.Format(domain.DateFormat))
	return nil
}

// List возвращает все бронирования, опционально на дату
func (s *Service) List(ctx context.Context, date *time.Time) (*models.ReservationListResponse, error) {
	filter := domain.ReservationFilter{}
	if date != nil {
		d := domain.NormalizeDate(*date)
		filter.Date = &d
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// ListMine возвращает бронирования заявителя
func (s *Service) ListMine(ctx context.Context, identity domain.Identity) (*models.ReservationListResponse, error) {
	mine, err := s.listOwn(ctx, identity, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ListMine: fetched %d reservations for requester=%s", len(mine), identity.Name)
	return models.FromDomainReservationList(mine), nil
}

// Summary возвращает количество активных бронирований по датам
func (s *Service) Summary(ctx context.Context) (*models.SummaryResponse, error) {
	summary, err := s.reservationRepo.Summary(ctx)
	if err != nil {
		s.logger.Error("Summary: repository error: %v", err)
		return nil, fmt.Errorf("%w: Summary - repository error: %v", ErrInternal, err)
	}

	resp := &models.SummaryResponse{Dates: make([]models.DateSummaryResponse, 0, len(summary))}
	for _, d := range summary {
		resp.Dates = append(resp.Dates, models.DateSummaryResponse{
			Date:  d.Date.Format(domain.DateFormat),
			Count: d.Count,
		})
	}
	return resp, nil
}

// LotteryResults возвращает подтвержденные и отклоненные бронирования, опционально на дату
func (s *Service) LotteryResults(ctx context.Context, date *time.Time) (*models.LotteryResultsResponse, error) {
	filter := domain.ReservationFilter{
		Statuses: []domain.ReservationStatus{domain.StatusConfirmed, domain.StatusRejected},
	}
	if date != nil {
		d := domain.NormalizeDate(*date)
		filter.Date = &d
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("LotteryResults: repository error: %v", err)
		return nil, fmt.Errorf("%w: LotteryResults - repository error: %v", ErrInternal, err)
	}

	resp := &models.LotteryResultsResponse{
		Confirmed: make([]models.ReservationResponse, 0),
		Rejected:  make([]models.ReservationResponse, 0),
	}
	for _, r := range reservations {
		switch r.Status {
		case domain.StatusConfirmed:
			resp.Confirmed = append(resp.Confirmed, models.FromDomainReservation(r))
		case domain.StatusRejected:
			resp.Rejected = append(resp.Rejected, models.FromDomainReservation(r))
		}
	}

	return resp, nil
}

// MyResult возвращает статус заявителя на дату (по умолчанию сегодня)
// Если заявки нет, статус "none"
func (s *Service) MyResult(ctx context.Context, identity domain.Identity, date *time.Time) (*models.MyResultResponse, error) {
	target := domain.DateOf(s.timeProvider.Now(), s.location)
	if date != nil {
		target = domain.NormalizeDate(*date)
	}

	mine, err := s.listOwn(ctx, identity, &target)
	if err != nil {
		return nil, err
	}

	resp := &models.MyResultResponse{
		Date:   target.Format(domain.DateFormat),
		Status: models.StatusNone,
	}
	if len(mine) > 0 {
		slot := mine[0].TimeSlot
		resp.Status = string(mine[0].Status)
		resp.TimeSlot = &slot
	}

	return resp, nil
}

// ListRuns возвращает последние запуски лотереи
func (s *Service) ListRuns(ctx context.Context, limit int) (*models.RunListResponse, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = DefaultRunsLimit
	}
	if limit > MaxRunsLimit {
		limit = MaxRunsLimit
	}

	runs, err := s.runRepo.ListRuns(ctx, uint64(limit))
	if err != nil {
		s.logger.Error("ListRuns: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRuns - repository error: %v", ErrInternal, err)
	}

	marker, err := s.runRepo.GetMarker(ctx)
	if err != nil && !errors.Is(err, lotteryRepo.ErrMarkerMissing) {
		s.logger.Error("ListRuns: failed to read run marker: %v", err)
		return nil, fmt.Errorf("%w: ListRuns - marker: %v", ErrInternal, err)
	}

	resp := &models.RunListResponse{Runs: make([]models.LotteryRunResponse, 0, len(runs))}
	if marker != nil {
		lastRun := marker.Format(domain.DateFormat)
		resp.LastScheduledRun = &lastRun
	}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, models.FromDomainRun(run))
	}
	return resp, nil
}

// listOwn выбирает бронирования по имени и оставляет только записи с тем же внешним идентификатором
func (s *Service) listOwn(ctx context.Context, identity domain.Identity, date *time.Time) ([]*domain.Reservation, error) {
	name := identity.Name
	reservations, err := s.reservationRepo.List(ctx, domain.ReservationFilter{
		Date:          date,
		RequesterName: &name,
	})
	if err != nil {
		s.logger.Error("listOwn: repository error for requester=%s: %v", identity.Name, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	mine := make([]*domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.BelongsTo(identity) {
			mine = append(mine, r)
		}
	}
	return mine, nil
}
