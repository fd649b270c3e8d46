package submit_reservation

import (
	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
	submitReservation "github.com/m04kA/SMC-SlotLottery/internal/usecase/submit_reservation"
)

// SubmitReservationRequest HTTP request model
type SubmitReservationRequest struct {
	Date     string `json:"date"`     // "2026-10-20"
	TimeSlot string `json:"timeSlot"` // "09:00-11:00"
}

const (
	msgConfirmed = "бронирование подтверждено"
	msgQueued    = "заявка принята и участвует в лотерее"
)

// SubmitReservationResponse HTTP response model
type SubmitReservationResponse struct {
	Reservation models.ReservationResponse `json:"reservation"`
	Queued      bool                       `json:"queued"` // заявка ждет лотереи
	Message     string                     `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *SubmitReservationRequest) ToUseCaseRequest(identity domain.Identity) (*submitReservation.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &submitReservation.Request{
		Identity: identity,
		Date:     date,
		TimeSlot: r.TimeSlot,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitReservation.Response) *SubmitReservationResponse {
	message := msgConfirmed
	if resp.Queued {
		message = msgQueued
	}
	return &SubmitReservationResponse{
		Reservation: models.FromDomainReservation(resp.Reservation),
		Queued:      resp.Queued,
		Message:     message,
	}
}
