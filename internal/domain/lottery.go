package domain

import (
	"sort"
	"time"
)

// LotteryTrigger источник запуска лотереи
type LotteryTrigger string

const (
	TriggerScheduled LotteryTrigger = "scheduled" // плановый запуск после отсечки
	TriggerForced    LotteryTrigger = "forced"    // административный принудительный запуск
	TriggerManual    LotteryTrigger = "manual"    // запуск на произвольную дату
)

// LotteryResult итог лотереи по одной заявке
type LotteryResult struct {
	ReservationID int64             `json:"reservationId"`
	RequesterName string            `json:"requesterName"`
	NewStatus     ReservationStatus `json:"newStatus"`
}

// LotteryRun запись журнала запусков (только добавление)
type LotteryRun struct {
	ID         string
	ExecutedAt time.Time
	TargetDate time.Time
	Trigger    LotteryTrigger
	Results    []LotteryResult
}

// Shuffler источник равномерных перестановок
// Реализуется *rand.Rand из math/rand/v2
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// AllocationPlan решение лотереи для одной даты
type AllocationPlan struct {
	AvailableSlots int
	Confirmed      []*Reservation
	Rejected       []*Reservation
}

// IsEmpty true, если лотерея ничего не меняет
func (p AllocationPlan) IsEmpty() bool {
	return len(p.Confirmed) == 0 && len(p.Rejected) == 0
}

// Results возвращает итоги плана в порядке перестановки
func (p AllocationPlan) Results() []LotteryResult {
	results := make([]LotteryResult, 0, len(p.Confirmed)+len(p.Rejected))
	for _, r := range p.Confirmed {
		results = append(results, LotteryResult{ReservationID: r.ID, RequesterName: r.RequesterName, NewStatus: StatusConfirmed})
	}
	for _, r := range p.Rejected {
		results = append(results, LotteryResult{ReservationID: r.ID, RequesterName: r.RequesterName, NewStatus: StatusRejected})
	}
	return results
}

// Allocate распределяет заявки pending на дату между свободными местами
//
// Свободные места: limits.DailyCapacity - confirmed. Если мест нет или заявок нет,
// план пустой и заявки остаются pending. Иначе заявки перемешиваются равномерно
// (Fisher-Yates через shuffler), первые получают confirmed, остальные rejected.
// Заявка подписчика в pending подтверждается только в пределах квоты подписчиков.
// Входные бронирования не изменяются.
func Allocate(reservations []*Reservation, limits Limits, shuffler Shuffler) AllocationPlan {
	var pending []*Reservation
	for _, r := range reservations {
		if r.IsPending() {
			pending = append(pending, r)
		}
	}

	occ := ComputeOccupancy(reservations)
	plan := AllocationPlan{AvailableSlots: occ.AvailableSlots(limits)}

	if plan.AvailableSlots <= 0 || len(pending) == 0 {
		return plan
	}

	// Порядок до перемешивания фиксирован, перестановка зависит только от shuffler
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	shuffler.Shuffle(len(pending), func(i, j int) {
		pending[i], pending[j] = pending[j], pending[i]
	})

	subscribers := occ.ConfirmedSubscriberCount
	for _, r := range pending {
		fits := len(plan.Confirmed) < plan.AvailableSlots
		if r.IsSubscriber && subscribers >= limits.SubscriberQuota {
			fits = false
		}

		if fits {
			plan.Confirmed = append(plan.Confirmed, r)
			if r.IsSubscriber {
				subscribers++
			}
			continue
		}
		plan.Rejected = append(plan.Rejected, r)
	}

	return plan
}
