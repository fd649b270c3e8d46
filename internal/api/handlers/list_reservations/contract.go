package list_reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

type ReservationService interface {
	List(ctx context.Context, date *time.Time) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
