package session

import (
	"context"
	"time"
)

// SubscriberChecker проверка подписки по реестру
type SubscriberChecker interface {
	IsSubscriber(ctx context.Context, subscriptionID *string) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }
