package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "дата и слот обязательны"
	msgNotFound           = "бронирование не найдено"
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

// Handle POST /api/v1/reservations/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/cancel - Identity missing in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Декодируем body
	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем в модель сервиса
	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /reservations/cancel - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Отменяем бронирование
	err = h.service.Cancel(r.Context(), identity, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrNotFound):
			h.logger.Warn("POST /reservations/cancel - Reservation not found: name=%s, date=%s, slot=%s",
				identity.Name, req.Date, req.TimeSlot)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("POST /reservations/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations/cancel - Failed to cancel reservation: name=%s, error=%v",
				identity.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/cancel - Reservation cancelled successfully: name=%s, date=%s, slot=%s",
		identity.Name, req.Date, req.TimeSlot)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
