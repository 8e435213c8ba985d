package physician

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// Directory источник врачей отделения
type Directory interface {
	ListByDepartment(ctx context.Context, department string) ([]*domain.Physician, error)
}

// BreakerSettings настройки предохранителя справочника
type BreakerSettings struct {
	FailureThreshold uint32        // подряд идущих ошибок до размыкания
	OpenTimeout      time.Duration // сколько держать разомкнутым
	HalfOpenRequests uint32        // пробных запросов в полуоткрытом состоянии
}

// GuardedDirectory оборачивает справочник предохранителем
// При серии ошибок справочник перестает опрашиваться и сразу отдает ErrDirectoryUnavailable
type GuardedDirectory struct {
	next    Directory
	breaker *gobreaker.CircuitBreaker[[]*domain.Physician]
}

// NewGuardedDirectory создает справочник с предохранителем
func NewGuardedDirectory(next Directory, settings BreakerSettings, logger Logger) *GuardedDirectory {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]*domain.Physician](gobreaker.Settings{
		Name:        "physician-directory",
		MaxRequests: settings.HalfOpenRequests,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Отмена запроса клиентом не говорит о здоровье справочника
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Directory breaker %s: %s -> %s", name, from.String(), to.String())
		},
	})

	return &GuardedDirectory{next: next, breaker: breaker}
}

// ListByDepartment делегирует запрос справочнику через предохранитель
func (g *GuardedDirectory) ListByDepartment(ctx context.Context, department string) ([]*domain.Physician, error) {
	physicians, err := g.breaker.Execute(func() ([]*domain.Physician, error) {
		return g.next.ListByDepartment(ctx, department)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	return physicians, err
}

// State текущее состояние предохранителя (для логов и тестов)
func (g *GuardedDirectory) State() string {
	return g.breaker.State().String()
}
