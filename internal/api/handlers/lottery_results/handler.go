package lottery_results

import (
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
)

const msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/lottery/results
// Query params: date (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDateQuery(r, "date")
	if err != nil {
		h.logger.Warn("GET /lottery/results - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	response, err := h.service.LotteryResults(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /lottery/results - Failed to get results: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /lottery/results - Results retrieved: confirmed=%d, rejected=%d",
		len(response.Confirmed), len(response.Rejected))
	handlers.RespondJSON(w, http.StatusOK, response)
}
