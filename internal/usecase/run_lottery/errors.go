package run_lottery

import "errors"

var (
	// ErrAlreadyRan возвращается, если плановая лотерея сегодня уже выполнена
	ErrAlreadyRan = errors.New("run_lottery: lottery already ran today")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("run_lottery: invalid input data")

	// ErrPersistence возвращается при ошибках хранилища, все изменения откачены
	ErrPersistence = errors.New("run_lottery: persistence failure")
)
