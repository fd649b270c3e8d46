package notifier

import "context"

// Sink канал доставки текстового уведомления
type Sink interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// MetricsRecorder учет отправленных уведомлений
type MetricsRecorder interface {
	ObserveNotification(sink string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
