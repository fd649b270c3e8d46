package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// FormatLotteryResult формирует сводку запуска лотереи для чата
func FormatLotteryResult(targetDate time.Time, confirmed, rejected []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Итоги лотереи на %s\n", targetDate.Format(domain.DateFormat))
	fmt.Fprintf(&b, "Подтверждены (%d): %s\n", len(confirmed), joinNames(confirmed))
	fmt.Fprintf(&b, "Отклонены (%d): %s", len(rejected), joinNames(rejected))

	return b.String()
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "нет"
	}
	return strings.Join(names, ", ")
}
