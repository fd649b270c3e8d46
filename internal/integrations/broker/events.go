package broker

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// LotteryCompletedEvent событие о завершенном запуске лотереи
type LotteryCompletedEvent struct {
	RunID      string                 `json:"runId"`
	TargetDate string                 `json:"targetDate"`
	Trigger    string                 `json:"trigger"`
	ExecutedAt time.Time              `json:"executedAt"`
	Confirmed  []string               `json:"confirmed"`
	Rejected   []string               `json:"rejected"`
	Results    []domain.LotteryResult `json:"results"`
}

// NewLotteryCompletedEvent собирает событие из записи журнала
func NewLotteryCompletedEvent(run *domain.LotteryRun) LotteryCompletedEvent {
	event := LotteryCompletedEvent{
		RunID:      run.ID,
		TargetDate: run.TargetDate.Format(domain.DateFormat),
		Trigger:    string(run.Trigger),
		ExecutedAt: run.ExecutedAt.UTC(),
		Confirmed:  make([]string, 0),
		Rejected:   make([]string, 0),
		Results:    run.Results,
	}

	for _, r := range run.Results {
		switch r.NewStatus {
		case domain.StatusConfirmed:
			event.Confirmed = append(event.Confirmed, r.RequesterName)
		case domain.StatusRejected:
			event.Rejected = append(event.Rejected, r.RequesterName)
		}
	}

	return event
}
