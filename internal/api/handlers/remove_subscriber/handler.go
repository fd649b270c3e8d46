package remove_subscriber

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/service/subscribers"
)

const (
	msgInvalidSubscriptionID = "некорректный ID подписки"
	msgNotFound              = "подписка не найдена"
)

type Handler struct {
	service SubscriberService
	logger  Logger
}

func NewHandler(service SubscriberService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/subscribers/{subscriptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subscriptionID := mux.Vars(r)["subscriptionId"]

	err := h.service.Remove(r.Context(), subscriptionID)
	if err != nil {
		switch {
		case errors.Is(err, subscribers.ErrSubscriberNotFound):
			h.logger.Warn("DELETE /admin/subscribers/{id} - Subscriber not found: subscription_id=%s", subscriptionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, subscribers.ErrInvalidInput):
			h.logger.Warn("DELETE /admin/subscribers/{id} - Invalid subscription ID: %q", subscriptionID)
			handlers.RespondBadRequest(w, msgInvalidSubscriptionID)

		default:
			h.logger.Error("DELETE /admin/subscribers/{id} - Failed to remove subscriber: subscription_id=%s, error=%v",
				subscriptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/subscribers/{id} - Subscriber removed: subscription_id=%s", subscriptionID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
