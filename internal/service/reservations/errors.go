package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда запись не найдена у пользователя
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrInvalidInput возвращается при пустом пользователе или идентификаторе
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
