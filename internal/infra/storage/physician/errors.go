package physician

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("physician.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("physician.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("physician.repository: failed to scan row")

	// ErrEncodeSchedule возвращается, если расписание не удалось сериализовать
	ErrEncodeSchedule = errors.New("physician.repository: failed to encode schedule")

	// ErrDirectoryUnavailable возвращается, пока предохранитель справочника разомкнут
	ErrDirectoryUnavailable = errors.New("physician.directory: unavailable")
)
