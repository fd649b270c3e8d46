package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSlotFormat возвращается, если метку слота нельзя разобрать как "HH:MM-HH:MM"
var ErrInvalidSlotFormat = errors.New("domain: invalid time slot format")

// ExpandToHourUnits раскладывает слот "09:00-11:00" на часовые единицы ["09:00", "10:00"]
// Единица порождается для каждого целого часа в [start, end)
// Границы 0-23 не проверяются: метки приходят из фиксированного каталога
func ExpandToHourUnits(label string) ([]string, error) {
	start, end, ok := strings.Cut(label, "-")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, label)
	}

	startHour, err := parseHour(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSlotFormat, label, err)
	}

	endHour, err := parseHour(end)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSlotFormat, label, err)
	}

	units := make([]string, 0, max(endHour-startHour, 0))
	for h := startHour; h < endHour; h++ {
		units = append(units, fmt.Sprintf(HourFormat, h))
	}

	return units, nil
}

// Overlaps сообщает, пересекаются ли часовые единицы двух слотов
func Overlaps(a, b string) (bool, error) {
	unitsA, err := ExpandToHourUnits(a)
	if err != nil {
		return false, err
	}

	unitsB, err := ExpandToHourUnits(b)
	if err != nil {
		return false, err
	}

	return intersects(unitsA, unitsB), nil
}

// OverlapsAny сообщает, пересекается ли слот с часовыми единицами множества occupied
func OverlapsAny(label string, occupied map[string]struct{}) (bool, error) {
	units, err := ExpandToHourUnits(label)
	if err != nil {
		return false, err
	}

	for _, u := range units {
		if _, ok := occupied[u]; ok {
			return true, nil
		}
	}
	return false, nil
}

// OccupiedHourUnits собирает часовые единицы активных (не отклоненных) бронирований
func OccupiedHourUnits(reservations []*Reservation) (map[string]struct{}, error) {
	occupied := make(map[string]struct{})

	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}

		units, err := ExpandToHourUnits(r.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("reservation id=%d: %w", r.ID, err)
		}
		for _, u := range units {
			occupied[u] = struct{}{}
		}
	}

	return occupied, nil
}

// SlotCatalog фиксированный набор допустимых слотов
type SlotCatalog struct {
	labels []string
	index  map[string]struct{}
}

// NewSlotCatalog создает каталог и проверяет формат каждой метки
func NewSlotCatalog(labels []string) (*SlotCatalog, error) {
	c := &SlotCatalog{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]struct{}, len(labels)),
	}

	for _, l := range labels {
		if _, err := ExpandToHourUnits(l); err != nil {
			return nil, err
		}
		if _, dup := c.index[l]; dup {
			continue
		}
		c.labels = append(c.labels, l)
		c.index[l] = struct{}{}
	}

	return c, nil
}

// Contains проверяет, что метка есть в каталоге
func (c *SlotCatalog) Contains(label string) bool {
	_, ok := c.index[label]
	return ok
}

// Labels возвращает копию меток каталога в исходном порядке
func (c *SlotCatalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

func parseHour(hhmm string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || len(hh) == 0 || len(mm) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", hhmm)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	if _, err := strconv.Atoi(mm); err != nil {
		return 0, err
	}

	return hour, nil
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, u := range a {
		set[u] = struct{}{}
	}
	for _, u := range b {
		if _, ok := set[u]; ok {
			return true
		}
	}
	return false
}
