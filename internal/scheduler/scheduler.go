package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
)

// LotteryRunner запуск лотереи на дату
type LotteryRunner interface {
	Execute(ctx context.Context, req *run_lottery.Request) (*run_lottery.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

// Scheduler раз в сутки после часа отсечки запускает лотерею на завтра
type Scheduler struct {
	runner       LotteryRunner
	interval     time.Duration
	cutoffHour   int
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger

	wg sync.WaitGroup
}

// New создает планировщик
func New(runner LotteryRunner, interval time.Duration, cutoffHour int, location *time.Location, logger Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		runner:       runner,
		interval:     interval,
		cutoffHour:   cutoffHour,
		location:     location,
		timeProvider: realTime{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Scheduler) WithTimeProvider(tp TimeProvider) *Scheduler {
	s.timeProvider = tp
	return s
}

// Start проверяет условие запуска сразу и затем каждые interval до отмены ctx
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler: started interval=%s cutoff_hour=%d timezone=%s", s.interval, s.cutoffHour, s.location)

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Go запускает Start в отдельной горутине; Wait дожидается ее завершения
func (s *Scheduler) Go(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Start(ctx)
	}()
}

// Wait блокируется, пока запущенный через Go цикл и текущий тик не завершатся
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Tick до отсечки ничего не делает, после отсечки запускает лотерею на завтра
// Повторный запуск в тот же день отсекается маркером и не считается ошибкой
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.timeProvider.Now().In(s.location)
	if now.Hour() < s.cutoffHour {
		return
	}

	today := domain.DateOf(now, s.location)
	resp, err := s.runner.Execute(ctx, &run_lottery.Request{
		TargetDate: domain.NextDay(today),
		Trigger:    domain.TriggerScheduled,
		Marker:     run_lottery.MarkerAdvance,
		MarkerDate: today,
	})
	if errors.Is(err, run_lottery.ErrAlreadyRan) {
		return
	}
	if err != nil {
		s.logger.Error("Scheduler: scheduled lottery failed, will retry on next tick: %v", err)
		return
	}

	if resp.NoOp() {
		s.logger.Info("Scheduler: lottery for %s changed nothing", domain.NextDay(today).Format(domain.DateFormat))
	}
}

// ForceRun запускает лотерею на завтра без учета отсечки и маркера
// Маркер записывается сегодняшней датой, плановый тик сегодня уже не сработает
func (s *Scheduler) ForceRun(ctx context.Context) (*run_lottery.Response, error) {
	today := domain.DateOf(s.timeProvider.Now(), s.location)
	s.logger.Info("Scheduler: forced lottery run for %s", domain.NextDay(today).Format(domain.DateFormat))

	return s.runner.Execute(ctx, &run_lottery.Request{
		TargetDate: domain.NextDay(today),
		Trigger:    domain.TriggerForced,
		Marker:     run_lottery.MarkerSet,
		MarkerDate: today,
	})
}

// RunFor запускает лотерею на произвольную дату, маркер не меняется
func (s *Scheduler) RunFor(ctx context.Context, date time.Time) (*run_lottery.Response, error) {
	s.logger.Info("Scheduler: manual lottery run for %s", date.Format(domain.DateFormat))

	return s.runner.Execute(ctx, &run_lottery.Request{
		TargetDate: domain.NormalizeDate(date),
		Trigger:    domain.TriggerManual,
		Marker:     run_lottery.MarkerNone,
	})
}
