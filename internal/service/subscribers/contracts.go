package subscribers

import (
	"context"

	"github.com/m04kA/SMC-SlotLottery/internal/domain"
)

// SubscriberRepository интерфейс реестра подписок
type SubscriberRepository interface {
	Add(ctx context.Context, subscriber *domain.Subscriber) (*domain.Subscriber, error)
	Remove(ctx context.Context, subscriptionID string) error
	Exists(ctx context.Context, subscriptionID string) (bool, error)
	List(ctx context.Context) ([]*domain.Subscriber, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
