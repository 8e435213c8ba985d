package get_slots_week

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	getAvailability "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/get_availability"
)

type GetAvailabilityUseCase interface {
	ExecuteBatch(ctx context.Context, req *getAvailability.BatchRequest) ([]*domain.AvailabilityResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
