package cancel_reservation

import (
	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	"github.com/m04kA/SMC-SlotLottery/internal/service/reservations/models"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	Date     string `json:"date"`     // "2026-10-20"
	TimeSlot string `json:"timeSlot"` // "09:00-11:00"
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelReservationRequest) ToServiceRequest() (*models.CancelRequest, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &models.CancelRequest{
		Date:     date,
		TimeSlot: r.TimeSlot,
	}, nil
}
