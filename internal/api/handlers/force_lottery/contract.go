package force_lottery

import (
	"context"

	runLottery "github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
)

type LotteryRunner interface {
	ForceRun(ctx context.Context) (*runLottery.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
