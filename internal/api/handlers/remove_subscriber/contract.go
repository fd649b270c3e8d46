package remove_subscriber

import "context"

type SubscriberService interface {
	Remove(ctx context.Context, subscriptionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
