package lottery

import "errors"

var (
	// ErrMarkerNotAdvanced возвращается, если маркер уже указывает на эту дату
	ErrMarkerNotAdvanced = errors.New("lottery.repository: run marker already set for date")

	// ErrMarkerMissing возвращается, если строка маркера отсутствует (миграции не применены)
	ErrMarkerMissing = errors.New("lottery.repository: run marker row missing")

	// ErrEncodeResults возвращается при ошибке сериализации итогов запуска
	ErrEncodeResults = errors.New("lottery.repository: failed to encode run results")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("lottery.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("lottery.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("lottery.repository: failed to scan row")
)
