package get_availability

import "errors"

var (
	// ErrTooManyDates возвращается, когда в пакетном запросе больше domain.MaxBatchDates дат
	ErrTooManyDates = errors.New("get_availability: too many dates")

	// ErrInternal возвращается при сбое справочника или леджера
	ErrInternal = errors.New("get_availability: internal error")
)
