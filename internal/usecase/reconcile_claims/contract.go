package reconcile_claims

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// ClaimLedger леджер занятых слотов
type ClaimLedger interface {
	ListAll(ctx context.Context) ([]*domain.SlotClaim, error)
	TryClaim(ctx context.Context, claim *domain.SlotClaim) error
	AttachReservation(ctx context.Context, key domain.SlotKey, reservationID string) error
	Release(ctx context.Context, key domain.SlotKey, reservationID, userID string) error
}

// ReservationLister все записи
type ReservationLister interface {
	ListAll(ctx context.Context) ([]*domain.Reservation, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
