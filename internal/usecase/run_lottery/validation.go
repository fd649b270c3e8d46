package run_lottery

import (
	"fmt"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TargetDate.IsZero() {
		return fmt.Errorf("%w: target date is required", ErrInvalidInput)
	}

	switch req.Trigger {
	case domain.TriggerScheduled, domain.TriggerForced, domain.TriggerManual:
	default:
		return fmt.Errorf("%w: unknown trigger %q", ErrInvalidInput, req.Trigger)
	}

	switch req.Marker {
	case MarkerNone:
	case MarkerAdvance, MarkerSet:
		if req.MarkerDate.IsZero() {
			return fmt.Errorf("%w: marker date is required", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown marker mode %d", ErrInvalidInput, req.Marker)
	}

	return nil
}

// statusChanges собирает пакет переходов статусов и проверяет каждый переход
func statusChanges(plan domain.AllocationPlan) (map[int64]domain.ReservationStatus, error) {
	changes := make(map[int64]domain.ReservationStatus, len(plan.Confirmed)+len(plan.Rejected))

	add := func(reservations []*domain.Reservation, next domain.ReservationStatus) error {
		for _, r := range reservations {
			if !r.Status.CanTransitionTo(next) {
				return fmt.Errorf("%w: %s -> %s (reservation id=%d)", domain.ErrInvalidTransition, r.Status, next, r.ID)
			}
			changes[r.ID] = next
		}
		return nil
	}

	if err := add(plan.Confirmed, domain.StatusConfirmed); err != nil {
		return nil, err
	}
	if err := add(plan.Rejected, domain.StatusRejected); err != nil {
		return nil, err
	}

	return changes, nil
}
