package get_slots

import (
	"context"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	getAvailability "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/get_availability"
)

type GetAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*domain.AvailabilityResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
