package add_subscriber

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/service/subscribers"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidSubscriptionID = "некорректный ID подписки"
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

// Handle PUT /api/v1/admin/subscribers/{subscriptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subscriptionID := mux.Vars(r)["subscriptionId"]

	var req AddSubscriberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PUT /admin/subscribers/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	response, err := h.service.Add(r.Context(), req.ToServiceRequest(subscriptionID))
	if err != nil {
		switch {
		case errors.Is(err, subscribers.ErrInvalidInput):
			h.logger.Warn("PUT /admin/subscribers/{id} - Invalid subscription ID: %q", subscriptionID)
			handlers.RespondBadRequest(w, msgInvalidSubscriptionID)

		default:
			h.logger.Error("PUT /admin/subscribers/{id} - Failed to add subscriber: subscription_id=%s, error=%v",
				subscriptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/subscribers/{id} - Subscriber registered: subscription_id=%s", response.SubscriptionID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
