package domain

import "time"

// ParseDate разбирает дату "YYYY-MM-DD" в полночь UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// DateOf возвращает календарную дату момента t в часовом поясе loc
// Результат нормализован к полуночи UTC, как даты из БД
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeDate отбрасывает время и часовой пояс у даты
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay возвращает следующую календарную дату
func NextDay(date time.Time) time.Time {
	return NormalizeDate(date).AddDate(0, 0, 1)
}

// SameDate сравнивает календарные даты без учета времени
func SameDate(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}
