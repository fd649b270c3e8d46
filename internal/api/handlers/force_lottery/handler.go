package force_lottery

import (
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	runLotteryHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/run_lottery"
)

type Handler struct {
	runner LotteryRunner
	logger Logger
}

func NewHandler(runner LotteryRunner, logger Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger,
	}
}

// Handle POST /api/v1/admin/lottery/force
// Немедленный запуск на завтра, маркер плановой лотереи выставляется на сегодня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.ForceRun(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/lottery/force - Lottery failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := runLotteryHandler.FromUseCaseResponse(result)

	h.logger.Info("POST /admin/lottery/force - Lottery finished: date=%s, noop=%t, confirmed=%d, rejected=%d",
		response.TargetDate, response.NoOp, len(response.Confirmed), len(response.Rejected))
	handlers.RespondJSON(w, http.StatusOK, response)
}
