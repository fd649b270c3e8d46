package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках отправки
	ErrInternal = errors.New("notifier: internal error")

	// ErrInvalidResponse возвращается, если получатель ответил ошибкой
	ErrInvalidResponse = errors.New("notifier: invalid response")

	// ErrSinkDisabled возвращается отключенным каналом
	ErrSinkDisabled = errors.New("notifier: sink disabled")
)
