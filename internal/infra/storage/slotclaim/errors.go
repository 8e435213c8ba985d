package slotclaim

import "errors"

var (
	// ErrClaimExists возвращается, когда ключ (врач, дата, время) уже занят
	// Это ожидаемый исход конкуренции, а не сбой хранилища
	ErrClaimExists = errors.New("slotclaim.repository: claim already exists")

	// ErrClaimNotFound возвращается, когда заявки с таким ключом нет
	ErrClaimNotFound = errors.New("slotclaim.repository: claim not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotclaim.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotclaim.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slotclaim.repository: failed to scan row")
)
