package run_lottery

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// MarkerMode обращение с маркером последнего запуска
type MarkerMode int

const (
	MarkerNone    MarkerMode = iota // маркер не трогаем (запуск на произвольную дату)
	MarkerAdvance                   // compare-and-set: второй запуск за день получает ErrAlreadyRan
	MarkerSet                       // безусловная запись (принудительный запуск)
)

// Request модель запроса на запуск лотереи
type Request struct {
	TargetDate time.Time            // Дата, заявки на которую распределяются
	Trigger    domain.LotteryTrigger // Источник запуска
	Marker     MarkerMode
	MarkerDate time.Time // Значение маркера (сегодня), если Marker != MarkerNone
}

// Response модель ответа с итогами запуска
type Response struct {
	TargetDate     time.Time
	Run            *domain.LotteryRun // nil, если лотерея ничего не изменила
	AvailableSlots int
	Confirmed      []string
	Rejected       []string
}

// NoOp true, если статусы не менялись
func (r *Response) NoOp() bool {
	return r.Run == nil
}

// Результаты запуска для метрик
const (
	ResultCompleted = "completed"
	ResultNoOp      = "noop"
	ResultSkipped   = "skipped"
	ResultError     = "error"
)
