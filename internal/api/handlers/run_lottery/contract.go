package run_lottery

import (
	"context"
	"time"

	runLottery "github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
)

type LotteryRunner interface {
	RunFor(ctx context.Context, date time.Time) (*runLottery.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
