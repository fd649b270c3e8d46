package submit_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotLottery/internal/api/handlers"
	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	submitReservation "github.com/m04kA/SMC-SlotLottery/internal/usecase/submit_reservation"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "дата и слот обязательны"
	msgInvalidTimeSlot    = "слот отсутствует в расписании"
	msgInvalidSlotFormat  = "некорректный формат слота, ожидается HH:MM-HH:MM"
	msgDateInPast         = "нельзя записаться на прошедшую дату"
	msgDateBlocked        = "запись на эту дату закрыта"
	msgDuplicateRequest   = "у вас уже есть заявка на эту дату"
	msgSlotConflict       = "слот пересекается с другим бронированием"
	msgCapacityExceeded   = "свободных мест для подписчиков на эту дату нет"
	msgLotteryClosed      = "лотерея на эту дату уже проведена, заявки не принимаются"
)

type Handler struct {
	useCase SubmitReservationUseCase
	logger  Logger
}

func NewHandler(useCase SubmitReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Identity missing in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Декодируем body
	var req SubmitReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(identity)
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitReservation.ErrDuplicateRequest):
			h.logger.Warn("POST /reservations - Duplicate request: name=%s, date=%s", identity.Name, req.Date)
			handlers.RespondConflict(w, msgDuplicateRequest)

		case errors.Is(err, submitReservation.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: name=%s, date=%s, slot=%s",
				identity.Name, req.Date, req.TimeSlot)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, submitReservation.ErrCapacityExceeded):
			h.logger.Warn("POST /reservations - Capacity exceeded: name=%s, date=%s", identity.Name, req.Date)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, submitReservation.ErrLotteryClosed):
			h.logger.Warn("POST /reservations - Lottery closed: name=%s, date=%s", identity.Name, req.Date)
			handlers.RespondConflict(w, msgLotteryClosed)

		case errors.Is(err, submitReservation.ErrInvalidTimeSlot):
			h.logger.Warn("POST /reservations - Unknown time slot: slot=%s", req.TimeSlot)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, domain.ErrInvalidSlotFormat):
			h.logger.Warn("POST /reservations - Invalid slot format: slot=%s", req.TimeSlot)
			handlers.RespondBadRequest(w, msgInvalidSlotFormat)

		case errors.Is(err, submitReservation.ErrDateInPast):
			h.logger.Warn("POST /reservations - Date in past: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, submitReservation.ErrDateBlocked):
			h.logger.Warn("POST /reservations - Date blocked: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateBlocked)

		case errors.Is(err, submitReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to submit reservation: name=%s, error=%v", identity.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: id=%d, name=%s, status=%s",
		result.Reservation.ID, identity.Name, result.Reservation.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
