package get_session

import (
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
	"github.com/m04kA/SMC-SlotLottery/internal/service/session/models"
)

const msgUnauthorized = "требуется авторизация"

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle GET /api/v1/session
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /session - Identity missing in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	h.logger.Info("GET /session - Session resolved: name=%s", identity.Name)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainIdentity(identity))
}
