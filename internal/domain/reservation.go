package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStatus возвращается при разборе неизвестного статуса
var ErrInvalidStatus = errors.New("domain: invalid reservation status")

// ErrInvalidTransition возвращается при попытке недопустимой смены статуса
var ErrInvalidTransition = errors.New("domain: invalid status transition")

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
)

// ParseReservationStatus конвертирует строку в статус
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(s) {
	case StatusPending, StatusConfirmed, StatusRejected:
		return ReservationStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsFinal true для статусов, из которых нет переходов
func (s ReservationStatus) IsFinal() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// CanTransitionTo проверяет допустимость перехода
// Разрешены только pending -> confirmed и pending -> rejected
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return s == StatusPending && (next == StatusConfirmed || next == StatusRejected)
}

// Reservation бронирование временного слота на дату
type Reservation struct {
	ID             int64
	RequesterName  string
	ExternalID     string
	SubscriptionID *string
	AccountKind    string
	IsSubscriber   bool // фиксируется при создании, не пересчитывается
	Date           time.Time
	TimeSlot       string
	Status         ReservationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive true, если бронирование участвует в учете вместимости и пересечений
func (r *Reservation) IsActive() bool {
	return r.Status != StatusRejected
}

// IsConfirmed true для подтвержденного бронирования
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// IsPending true для заявки, ожидающей лотереи
func (r *Reservation) IsPending() bool {
	return r.Status == StatusPending
}

// TransitionTo меняет статус, соблюдая правило однонаправленных переходов
func (r *Reservation) TransitionTo(next ReservationStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s (reservation id=%d)", ErrInvalidTransition, r.Status, next, r.ID)
	}
	r.Status = next
	return nil
}

// BelongsTo проверяет, что бронирование принадлежит заявителю
func (r *Reservation) BelongsTo(identity Identity) bool {
	return r.RequesterName == identity.Name && r.ExternalID == identity.ExternalID
}

// Identity данные заявителя, полученные при входе
type Identity struct {
	Name           string
	ExternalID     string
	SubscriptionID *string
	AccountKind    string
	IsSubscriber   bool
}

// ReservationFilter фильтр выборки бронирований
// Пустые поля не ограничивают выборку
type ReservationFilter struct {
	Date          *time.Time
	RequesterName *string
	Statuses      []ReservationStatus
}

// ReservationMatch критерии удаления бронирования при отмене
type ReservationMatch struct {
	RequesterName string
	ExternalID    string
	Date          time.Time
	TimeSlot      string
}

// DateSummary количество активных бронирований на дату
type DateSummary struct {
	Date  time.Time
	Count int
}
