package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/slotclaim"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/slotlock"
)

// UseCase use case для создания записи на прием
// Единственность (врач, дата, время) обеспечивает атомарный захват в леджере,
// блокировка слота только выравнивает нагрузку внутри процесса
type UseCase struct {
	directory    PhysicianDirectory
	ledger       ClaimLedger
	reservations ReservationStore
	locker       Locker
	metrics      Metrics
	config       Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	directory PhysicianDirectory,
	ledger ClaimLedger,
	reservations ReservationStore,
	locker Locker,
	metrics Metrics,
	config Config,
	location *time.Location,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		directory:    directory,
		ledger:       ledger,
		reservations: reservations,
		locker:       locker,
		metrics:      metrics,
		config:       config,
		timeProvider: &RealTimeProvider{Location: location},
		logger:       logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	uc.logger.Info("CreateReservation: user=%q, department=%q, date=%q, time=%q",
		req.UserID, req.Department, req.Date, req.Time)

	// 1. Валидация входных данных, хранилища не затрагиваются
	v, err := validateRequest(req, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.metrics.ObserveReservation(OutcomeRejected)
		return nil, err
	}

	// 2. Блокировка слота, снимается на любом выходе
	key := slotlock.Key(v.department, v.date, v.time.String())
	started := time.Now()
	release, err := uc.locker.Acquire(ctx, key, uc.config.LockTimeout)
	uc.metrics.ObserveLockWait(time.Since(started), err == nil)
	if err != nil {
		if errors.Is(err, slotlock.ErrTimeout) {
			uc.logger.Warn("CreateReservation: lock %s not acquired in %s", key, uc.config.LockTimeout)
			uc.metrics.ObserveReservation(OutcomeContention)
			return nil, ErrContentionTimeout
		}
		uc.logger.Error("CreateReservation: failed to acquire lock %s: %v", key, err)
		uc.metrics.ObserveReservation(OutcomeFailed)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer release()

	result, outcome, err := uc.reserve(ctx, v)
	uc.metrics.ObserveReservation(outcome)
	return result, err
}

func (uc *UseCase) reserve(ctx context.Context, v *validated) (*domain.Reservation, string, error) {
	// 3. У пользователя уже есть запись на этот слот
	exists, err := uc.reservations.ExistsForUserSlot(ctx, v.userID, v.department, v.date, v.time)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to check existing reservation of user=%q: %v", v.userID, err)
		return nil, OutcomeFailed, fmt.Errorf("%w: failed to check existing reservation: %v", ErrInternal, err)
	}
	if exists {
		uc.logger.Warn("CreateReservation: user=%q already holds %s %s in %q", v.userID, v.date, v.time, v.department)
		return nil, OutcomeDuplicate, ErrAlreadyReserved
	}

	// 4. Врачи отделения
	physicians, err := uc.directory.ListByDepartment(ctx, v.department)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to list physicians for department=%q: %v", v.department, err)
		return nil, OutcomeFailed, fmt.Errorf("%w: failed to list physicians: %v", ErrInternal, err)
	}

	// 5. Нет врачей: демо-правило без заявки в леджере
	if len(physicians) == 0 {
		if !uc.config.DemoSlots || !domain.DemoReservable(v.date, v.time) {
			uc.logger.Warn("CreateReservation: department=%q has no physicians", v.department)
			return nil, OutcomeExhausted, ErrNoAvailability
		}
		res, err := uc.reservations.Create(ctx, uc.newReservation(v, domain.DemoPhysicianID, domain.DemoPhysicianName))
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create demo reservation: %v", err)
			return nil, OutcomeFailed, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
		uc.logger.Info("CreateReservation: demo reservation id=%s created for user=%q", res.ID, v.userID)
		return res, OutcomeDemo, nil
	}

	// 6. Захват слота у первого свободного кандидата
	assigned, claim, err := uc.claimFirst(ctx, v, candidates(physicians, v.date, v.time))
	if err != nil {
		return nil, OutcomeFailed, err
	}
	if assigned == nil {
		uc.logger.Warn("CreateReservation: no physician available in %q at %s %s", v.department, v.date, v.time)
		return nil, OutcomeExhausted, ErrNoAvailability
	}

	// 7. Запись; при сбое откатываем заявку
	res, err := uc.reservations.Create(ctx, uc.newReservation(v, assigned.ID, assigned.Name))
	if err != nil {
		uc.logger.Error("CreateReservation: failed to create reservation, rolling back claim %s: %v", claim.Key, err)
		if delErr := uc.ledger.Delete(context.WithoutCancel(ctx), claim.Key); delErr != nil {
			uc.logger.Error("CreateReservation: failed to roll back claim %s: %v", claim.Key, delErr)
		}
		return nil, OutcomeFailed, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
	}

	// 8. Обратная ссылка на запись, без нее отмена сверяет владельца
	if err := uc.ledger.AttachReservation(ctx, claim.Key, res.ID); err != nil {
		uc.logger.Warn("CreateReservation: failed to attach reservation id=%s to claim %s: %v", res.ID, claim.Key, err)
	}

	uc.logger.Info("CreateReservation: reservation id=%s created, physician=%s", res.ID, assigned.ID)
	return res, OutcomeCreated, nil
}

// claimFirst пробует кандидатов по порядку; занятый слот не ошибка, а переход к следующему
// Возвращает nil, nil, nil, если все кандидаты заняты
func (uc *UseCase) claimFirst(ctx context.Context, v *validated, list []*domain.Physician) (*domain.Physician, *domain.SlotClaim, error) {
	for _, p := range list {
		claim := &domain.SlotClaim{
			Key:        domain.SlotKey{PhysicianID: p.ID, Date: v.date, Time: v.time},
			Department: v.department,
			UserID:     v.userID,
			CreatedAt:  uc.timeProvider.Now(),
		}

		err := uc.ledger.TryClaim(ctx, claim)
		switch {
		case err == nil:
			return p, claim, nil
		case errors.Is(err, slotclaim.ErrClaimExists):
			uc.metrics.ObserveClaimConflict(v.department)
			continue
		default:
			uc.logger.Error("CreateReservation: failed to claim %s: %v", claim.Key, err)
			return nil, nil, fmt.Errorf("%w: failed to claim slot: %v", ErrInternal, err)
		}
	}
	return nil, nil, nil
}

func (uc *UseCase) newReservation(v *validated, physicianID, physicianName string) *domain.Reservation {
	return &domain.Reservation{
		UserID:        v.userID,
		Department:    v.department,
		Date:          v.date,
		Time:          v.time,
		PhysicianID:   physicianID,
		PhysicianName: physicianName,
		Purpose:       v.purpose,
		CreatedAt:     uc.timeProvider.Now(),
	}
}
