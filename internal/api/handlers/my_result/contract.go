package my_result

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

type ReservationService interface {
	MyResult(ctx context.Context, identity domain.Identity, date *time.Time) (*models.MyResultResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
