package list_runs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations"
)

const msgInvalidLimit = "некорректный limit, ожидается неотрицательное число"

type Handler struct {
	service RunService
	logger  Logger
}

func NewHandler(service RunService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/lottery/runs
// Query params: limit (optional, по умолчанию 20, максимум 200)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /admin/lottery/runs - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	response, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /admin/lottery/runs - Invalid limit: limit=%d", limit)
			handlers.RespondBadRequest(w, msgInvalidLimit)

		default:
			h.logger.Error("GET /admin/lottery/runs - Failed to list runs: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/lottery/runs - Runs retrieved: count=%d", len(response.Runs))
	handlers.RespondJSON(w, http.StatusOK, response)
}
