package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	Delete(ctx context.Context, match domain.ReservationMatch) (int64, error)
	Summary(ctx context.Context) ([]domain.DateSummary, error)
}

// RunRepository журнал запусков лотереи
type RunRepository interface {
	ListRuns(ctx context.Context, limit uint64) ([]*domain.LotteryRun, error)
	GetMarker(ctx context.Context) (*time.Time, error)
}

// AvailabilityCache кэш свободных слотов
type AvailabilityCache interface {
	Invalidate(ctx context.Context, date time.Time) error
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
