package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// PhysicianDirectory справочник врачей
type PhysicianDirectory interface {
	ListByDepartment(ctx context.Context, department string) ([]*domain.Physician, error)
}

// ClaimLedger леджер занятых слотов
type ClaimLedger interface {
	TryClaim(ctx context.Context, claim *domain.SlotClaim) error
	Delete(ctx context.Context, key domain.SlotKey) error
	AttachReservation(ctx context.Context, key domain.SlotKey, reservationID string) error
}

// ReservationStore хранилище записей
type ReservationStore interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	ExistsForUserSlot(ctx context.Context, userID, department, date string, t types.TimeString) (bool, error)
}

// Locker блокировка слота department::date::time
type Locker interface {
	Acquire(ctx context.Context, key string, timeout time.Duration) (release func(), err error)
}

// Metrics счетчики исходов записи
type Metrics interface {
	ObserveReservation(outcome string)
	ObserveClaimConflict(department string)
	ObserveLockWait(wait time.Duration, acquired bool)
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

// RealTimeProvider реальный провайдер времени в часовом поясе клиники
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}

type noopMetrics struct{}

func (noopMetrics) ObserveReservation(string)           {}
func (noopMetrics) ObserveClaimConflict(string)         {}
func (noopMetrics) ObserveLockWait(time.Duration, bool) {}
