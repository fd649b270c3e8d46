package run_lottery

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/integrations/broker"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	LockDate(ctx context.Context, date time.Time) error
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	UpdateStatuses(ctx context.Context, statuses map[int64]domain.ReservationStatus) error
}

// RunStore маркер запусков и журнал лотереи
type RunStore interface {
	AdvanceMarker(ctx context.Context, runDate time.Time) error
	SetMarker(ctx context.Context, runDate time.Time) error
	AppendRun(ctx context.Context, run *domain.LotteryRun) error
}

// Notifier рассылка итогов, не блокирует вызывающего
type Notifier interface {
	Send(ctx context.Context, text string)
}

// EventPublisher публикация события о завершенной лотерее
type EventPublisher interface {
	PublishLotteryCompleted(ctx context.Context, event broker.LotteryCompletedEvent) error
}

// AvailabilityCache кэш свободных слотов
type AvailabilityCache interface {
	Invalidate(ctx context.Context, date time.Time) error
}

// MetricsRecorder учет запусков лотереи
type MetricsRecorder interface {
	ObserveLotteryRun(trigger, result string)
	ObserveLotteryAllocations(confirmed, rejected int)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
