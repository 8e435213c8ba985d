package cancel_reservation

import "context"

type ReservationService interface {
	Cancel(ctx context.Context, userID, reservationID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
