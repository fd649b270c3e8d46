package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	Date time.Time // Дата (без времени)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date   time.Time
	Slots  []string // Метки каталога, не пересекающиеся с активными бронированиями
	Closed bool     // Дата в прошлом или закрыта для записи
}

// Settings каталог и закрытые даты
type Settings struct {
	Catalog      *domain.SlotCatalog
	Location     *time.Location
	BlockedDates []time.Time
}
