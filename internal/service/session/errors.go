package session

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных данных входа
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidToken возвращается для поврежденного или чужого токена
	ErrInvalidToken = errors.New("invalid session token")

	// ErrTokenExpired возвращается для просроченного токена
	ErrTokenExpired = errors.New("session token expired")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
