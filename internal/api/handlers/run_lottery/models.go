package run_lottery

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	runLottery "github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
)

// RunLotteryRequest HTTP request model
type RunLotteryRequest struct {
	Date string `json:"date"` // "2026-10-20"
}

// LotteryOutcomeResponse HTTP response model
type LotteryOutcomeResponse struct {
	TargetDate     string   `json:"targetDate"`
	RunID          *string  `json:"runId,omitempty"` // нет для запуска без изменений
	NoOp           bool     `json:"noop"`
	AvailableSlots int      `json:"availableSlots"`
	Confirmed      []string `json:"confirmed"`
	Rejected       []string `json:"rejected"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *runLottery.Response) *LotteryOutcomeResponse {
	out := &LotteryOutcomeResponse{
		TargetDate:     resp.TargetDate.Format(domain.DateFormat),
		NoOp:           resp.NoOp(),
		AvailableSlots: resp.AvailableSlots,
		Confirmed:      nonNil(resp.Confirmed),
		Rejected:       nonNil(resp.Rejected),
	}
	if resp.Run != nil {
		id := resp.Run.ID
		out.RunID = &id
	}
	return out
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

func parseDate(raw string) (time.Time, error) {
	return domain.ParseDate(strings.TrimSpace(raw))
}
