package submit_reservation

import "errors"

var (
	// ErrDuplicateRequest возвращается, если у заявителя уже есть бронирование на дату
	ErrDuplicateRequest = errors.New("submit_reservation: requester already has a reservation for this date")

	// ErrSlotConflict возвращается, если слот пересекается с активным бронированием
	ErrSlotConflict = errors.New("submit_reservation: time slot overlaps an active reservation")

	// ErrCapacityExceeded возвращается, если квота подписчиков или вместимость даты исчерпаны
	ErrCapacityExceeded = errors.New("submit_reservation: capacity exceeded")

	// ErrInvalidTimeSlot возвращается, если слота нет в каталоге
	ErrInvalidTimeSlot = errors.New("submit_reservation: time slot is not in catalog")

	// ErrDateInPast возвращается при попытке записи на прошедшую дату
	ErrDateInPast = errors.New("submit_reservation: date is in the past")

	// ErrDateBlocked возвращается, если дата закрыта для записи
	ErrDateBlocked = errors.New("submit_reservation: date is blocked")

	// ErrLotteryClosed возвращается, если лотерея на дату уже проведена и заявка в очередь не попадет
	ErrLotteryClosed = errors.New("submit_reservation: lottery for this date already ran")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_reservation: invalid input data")

	// ErrPersistence возвращается при ошибках хранилища
	ErrPersistence = errors.New("submit_reservation: persistence failure")
)
