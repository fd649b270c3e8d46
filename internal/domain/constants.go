package domain

// Ограничения вместимости по умолчанию
const (
	DefaultDailyCapacity   = 3  // максимум подтвержденных бронирований на дату
	DefaultSubscriberQuota = 2  // максимум подтвержденных бронирований подписчиков на дату
	DefaultCutoffHour      = 12 // час, после которого запускается лотерея на завтра
)

// Форматы даты и времени
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
	HourFormat = "%02d:00"    // токен часовой единицы
)

// DefaultSlotCatalog фиксированный каталог временных слотов
var DefaultSlotCatalog = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"09:00-11:00",
	"10:00-12:00",
	"09:00-12:00",
}

// AccountKind тип учетной записи заявителя (описательный атрибут)
const (
	AccountKindStandard = "standard"
)
