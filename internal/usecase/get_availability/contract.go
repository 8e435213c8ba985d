package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// PhysicianDirectory справочник врачей
type PhysicianDirectory interface {
	ListByDepartment(ctx context.Context, department string) ([]*domain.Physician, error)
}

// ClaimLedger леджер занятых слотов
type ClaimLedger interface {
	BulkGet(ctx context.Context, physicianIDs []string, dates []string) ([]*domain.SlotClaim, error)
}

// ReservationReader записи пользователя
type ReservationReader interface {
	ListForUserDepartmentDates(ctx context.Context, userID, department string, dates []string) ([]domain.DateTime, error)
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
