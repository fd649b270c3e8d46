package run_lottery

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	runLottery "github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры запуска"
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

// Handle POST /api/v1/admin/lottery/run
// Запуск на произвольную дату, маркер плановой лотереи не меняется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RunLotteryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/lottery/run - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.logger.Warn("POST /admin/lottery/run - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.runner.RunFor(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, runLottery.ErrInvalidInput):
			h.logger.Warn("POST /admin/lottery/run - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /admin/lottery/run - Lottery failed: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /admin/lottery/run - Lottery finished: date=%s, noop=%t, confirmed=%d, rejected=%d",
		response.TargetDate, response.NoOp, len(response.Confirmed), len(response.Rejected))
	handlers.RespondJSON(w, http.StatusOK, response)
}
