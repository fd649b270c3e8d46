package get_available_slots

import (
	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SlotLottery/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date   string   `json:"date"`
	Slots  []string `json:"slots"`
	Closed bool     `json:"closed"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []string{}
	}
	return &AvailableSlotsResponse{
		Date:   resp.Date.Format(domain.DateFormat),
		Slots:  slots,
		Closed: resp.Closed,
	}
}
