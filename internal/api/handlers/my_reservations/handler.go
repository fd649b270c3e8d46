package my_reservations

import (
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
)

const msgUnauthorized = "требуется авторизация"

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

// Handle GET /api/v1/reservations/mine
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/mine - Identity missing in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	response, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		h.logger.Error("GET /reservations/mine - Failed to list reservations: name=%s, error=%v", identity.Name, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations/mine - Reservations retrieved: name=%s, count=%d",
		identity.Name, len(response.Reservations))
	handlers.RespondJSON(w, http.StatusOK, response)
}
