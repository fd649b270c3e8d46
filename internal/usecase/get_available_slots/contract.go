package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// AvailabilityCache кэш свободных слотов по датам
// Get возвращает версию даты, Set пишет только под ней
type AvailabilityCache interface {
	Get(ctx context.Context, date time.Time) ([]string, int64, bool, error)
	Set(ctx context.Context, date time.Time, version int64, slots []string) error
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
