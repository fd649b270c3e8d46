package submit_reservation

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// Request модель запроса на бронирование
type Request struct {
	Identity domain.Identity // Заявитель из сессии
	Date     time.Time       // Дата бронирования (без времени)
	TimeSlot string          // Метка слота из каталога, например "09:00-11:00"
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
	Queued      bool // true, если заявка ушла в лотерею (pending)
}

// Policy правила допуска
type Policy struct {
	Limits       domain.Limits
	Catalog      *domain.SlotCatalog
	Location     *time.Location // часовой пояс для определения "сегодня"
	BlockedDates []time.Time
}

// Исходы допуска для метрик
const (
	OutcomeConfirmed = "confirmed"
	OutcomePending   = "pending"
	OutcomeDuplicate = "duplicate"
	OutcomeConflict  = "conflict"
	OutcomeCapacity  = "capacity"
	OutcomeClosed    = "closed"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)
