package availability

import "errors"

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("availability.cache: failed to read")

	// ErrCacheWrite возвращается при ошибке записи или удаления в Redis
	ErrCacheWrite = errors.New("availability.cache: failed to write")

	// ErrDecode возвращается, если закэшированное значение повреждено
	ErrDecode = errors.New("availability.cache: failed to decode value")
)
