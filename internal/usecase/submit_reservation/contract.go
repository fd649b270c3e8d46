package submit_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	LockDate(ctx context.Context, date time.Time) error
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
}

// LotteryMarker дата последнего планового запуска лотереи
type LotteryMarker interface {
	GetMarker(ctx context.Context) (*time.Time, error)
}

// AvailabilityCache кэш свободных слотов, сбрасывается после изменения даты
type AvailabilityCache interface {
	Invalidate(ctx context.Context, date time.Time) error
}

// MetricsRecorder учет исходов допуска
type MetricsRecorder interface {
	ObserveAdmission(outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
