package reservations_summary

import (
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
)

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

// Handle GET /api/v1/reservations/summary
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("GET /reservations/summary - Failed to build summary: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations/summary - Summary retrieved: dates=%d", len(response.Dates))
	handlers.RespondJSON(w, http.StatusOK, response)
}
