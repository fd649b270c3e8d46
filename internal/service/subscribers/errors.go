package subscribers

import "errors"

var (
	// ErrSubscriberNotFound возвращается, когда подписка не найдена в реестре
	ErrSubscriberNotFound = errors.New("subscriber not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
