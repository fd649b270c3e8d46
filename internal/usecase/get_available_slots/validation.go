package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// isClosed true, если на дату нельзя записаться: она в прошлом или закрыта
func isClosed(date, today time.Time, blocked []time.Time) bool {
	if date.Before(today) {
		return true
	}
	for _, b := range blocked {
		if domain.SameDate(b, date) {
			return true
		}
	}
	return false
}
