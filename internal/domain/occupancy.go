package domain

// Occupancy занятость даты подтвержденными бронированиями
type Occupancy struct {
	ConfirmedCount           int
	ConfirmedSubscriberCount int
}

// ComputeOccupancy считает занятость по подтвержденным бронированиям
// Вызывается внутри той же транзакции, что и зависящая от нее запись
func ComputeOccupancy(reservations []*Reservation) Occupancy {
	var occ Occupancy
	for _, r := range reservations {
		if !r.IsConfirmed() {
			continue
		}
		occ.ConfirmedCount++
		if r.IsSubscriber {
			occ.ConfirmedSubscriberCount++
		}
	}
	return occ
}

// Limits ограничения вместимости даты
type Limits struct {
	DailyCapacity   int
	SubscriberQuota int
}

// DefaultLimits ограничения по умолчанию (3 места, 2 из них для подписчиков)
func DefaultLimits() Limits {
	return Limits{
		DailyCapacity:   DefaultDailyCapacity,
		SubscriberQuota: DefaultSubscriberQuota,
	}
}

// AdmitsSubscriber true, если подписчика можно подтвердить сразу
func (o Occupancy) AdmitsSubscriber(limits Limits) bool {
	return o.ConfirmedSubscriberCount < limits.SubscriberQuota && o.ConfirmedCount < limits.DailyCapacity
}

// AvailableSlots количество свободных мест на дату (может быть <= 0)
func (o Occupancy) AvailableSlots(limits Limits) int {
	return limits.DailyCapacity - o.ConfirmedCount
}
