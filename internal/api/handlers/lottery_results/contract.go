package lottery_results

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

type ReservationService interface {
	LotteryResults(ctx context.Context, date *time.Time) (*models.LotteryResultsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
