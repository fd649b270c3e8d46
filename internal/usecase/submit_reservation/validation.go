package submit_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Identity.Name) == "" {
		return fmt.Errorf("%w: requester name is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Identity.ExternalID) == "" {
		return fmt.Errorf("%w: external id is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.TimeSlot == "" {
		return fmt.Errorf("%w: time slot is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что на дату можно записаться
func validateDate(date, today time.Time, blocked []time.Time) error {
	if date.Before(today) {
		return fmt.Errorf("%w: %s < %s", ErrDateInPast, date.Format(domain.DateFormat), today.Format(domain.DateFormat))
	}

	for _, b := range blocked {
		if domain.SameDate(b, date) {
			return fmt.Errorf("%w: %s", ErrDateBlocked, date.Format(domain.DateFormat))
		}
	}

	return nil
}

// lotteryClosed сообщает, что заявка в лотерею на дату уже не будет разыграна:
// дата не позже сегодняшней или плановый запуск на нее уже прошел (маркер >= дата-1)
func lotteryClosed(date, today time.Time, lastRun *time.Time) bool {
	if !date.After(today) {
		return true
	}
	return lastRun != nil && !date.After(domain.NextDay(*lastRun))
}

// validateTimeSlot проверяет метку слота: формат и наличие в каталоге
func validateTimeSlot(label string, catalog *domain.SlotCatalog) error {
	if _, err := domain.ExpandToHourUnits(label); err != nil {
		return err
	}

	if catalog != nil && !catalog.Contains(label) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, label)
	}

	return nil
}

// findDuplicate ищет бронирование заявителя среди бронирований даты (в любом статусе)
func findDuplicate(reservations []*domain.Reservation, requesterName string) *domain.Reservation {
	for _, r := range reservations {
		if r.RequesterName == requesterName {
			return r
		}
	}
	return nil
}
