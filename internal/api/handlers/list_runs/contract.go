package list_runs

import (
	"context"

	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

type RunService interface {
	ListRuns(ctx context.Context, limit int) (*models.RunListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
