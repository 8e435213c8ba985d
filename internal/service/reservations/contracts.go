package reservations

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// ReservationRepository интерфейс хранилища записей
type ReservationRepository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Reservation, error)
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Reservation, error)
}

// ClaimLedger интерфейс леджера занятых слотов
type ClaimLedger interface {
	Release(ctx context.Context, key domain.SlotKey, reservationID, userID string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
