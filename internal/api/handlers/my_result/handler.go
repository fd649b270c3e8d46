package my_result

import (
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/reservations/mine/result
// Query params: date (optional, YYYY-MM-DD, по умолчанию сегодня)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/mine/result - Identity missing in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, err := handlers.ParseDateQuery(r, "date")
	if err != nil {
		h.logger.Warn("GET /reservations/mine/result - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	response, err := h.service.MyResult(r.Context(), identity, date)
	if err != nil {
		h.logger.Error("GET /reservations/mine/result - Failed to get result: name=%s, error=%v", identity.Name, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations/mine/result - Result retrieved: name=%s, date=%s, status=%s",
		identity.Name, response.Date, response.Status)
	handlers.RespondJSON(w, http.StatusOK, response)
}
