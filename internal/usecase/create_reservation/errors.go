package create_reservation

import "errors"

var (
	// Ошибки валидации: сообщаются пользователю, повтор бессмысленен
	ErrUserRequired    = errors.New("create_reservation: user id is required")
	ErrMissingFields   = errors.New("create_reservation: department, date and time are required")
	ErrInvalidInput    = errors.New("create_reservation: invalid input")
	ErrPastDate        = errors.New("create_reservation: date is in the past")
	ErrHoliday         = errors.New("create_reservation: date is a holiday")
	ErrTimeElapsed     = errors.New("create_reservation: time has already passed")
	ErrAlreadyReserved = errors.New("create_reservation: user already has a reservation for this slot")

	// ErrNoAvailability все врачи на слот заняты
	ErrNoAvailability = errors.New("create_reservation: no physician available")

	// ErrContentionTimeout блокировка слота не получена вовремя, можно повторить
	ErrContentionTimeout = errors.New("create_reservation: slot is busy, try again shortly")

	// ErrInternal сбой хранилища
	ErrInternal = errors.New("create_reservation: internal error")
)

var validationErrors = []error{
	ErrUserRequired,
	ErrMissingFields,
	ErrInvalidInput,
	ErrPastDate,
	ErrHoliday,
	ErrTimeElapsed,
	ErrAlreadyReserved,
}

// IsValidation ошибка относится к отказу по входным данным
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
