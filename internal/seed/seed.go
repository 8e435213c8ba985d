// Package seed заполняет справочник врачей начальными данными
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// ErrApply возвращается, если не удалось записать врача
var ErrApply = errors.New("seed: failed to apply")

// PhysicianWriter запись в справочник врачей
type PhysicianWriter interface {
	Upsert(ctx context.Context, p *domain.Physician, position int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Physicians начальный справочник; позиция врача задает порядок внутри отделения
func Physicians() []*domain.Physician {
	out := make([]*domain.Physician, len(physicians))
	for i, e := range physicians {
		out[i] = e.physician()
	}
	return out
}

// Apply записывает справочник одной транзакцией, повторный запуск обновляет существующих врачей
// txManager может быть nil для хранилищ без транзакций
func Apply(ctx context.Context, txManager TransactionManager, writer PhysicianWriter, logger Logger) (int, error) {
	list := Physicians()

	apply := func(ctx context.Context) error {
		positions := make(map[string]int)
		for _, p := range list {
			pos := positions[p.Department]
			positions[p.Department]++
			if err := writer.Upsert(ctx, p, pos); err != nil {
				return fmt.Errorf("%w: physician %s: %v", ErrApply, p.ID, err)
			}
		}
		return nil
	}

	var err error
	if txManager != nil {
		err = txManager.Do(ctx, apply)
	} else {
		err = apply(ctx)
	}
	if err != nil {
		return 0, err
	}

	logger.Info("Seed: applied %d physicians", len(list))
	return len(list), nil
}
