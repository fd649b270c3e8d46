package middleware

import (
	"time"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// TokenParser проверка токена сессии
type TokenParser interface {
	Parse(raw string) (domain.Identity, error)
}

// HTTPMetrics учет HTTP запросов
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
