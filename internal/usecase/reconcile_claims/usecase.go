package reconcile_claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/slotclaim"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/ptr"
)

// UseCase сверка леджера с записями
// Восстанавливает заявки для записей, у которых их нет, и освобождает заявки, оставшиеся без записи
// Повторный запуск на согласованных данных ничего не меняет
type UseCase struct {
	ledger       ClaimLedger
	reservations ReservationLister
	config       Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger ClaimLedger, reservations ReservationLister, config Config, logger Logger) *UseCase {
	return &UseCase{
		ledger:       ledger,
		reservations: reservations,
		config:       config,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет сверку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Report, error) {
	uc.logger.Info("ReconcileClaims: started, dryRun=%v", req.DryRun)

	// 1. Снимок записей и заявок
	reservations, err := uc.reservations.ListAll(ctx)
	if err != nil {
		uc.logger.Error("ReconcileClaims: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}
	claims, err := uc.ledger.ListAll(ctx)
	if err != nil {
		uc.logger.Error("ReconcileClaims: failed to list claims: %v", err)
		return nil, fmt.Errorf("%w: failed to list claims: %v", ErrInternal, err)
	}

	byKey := make(map[domain.SlotKey]*domain.SlotClaim, len(claims))
	for _, c := range claims {
		byKey[c.Key] = c
	}
	byID := make(map[string]*domain.Reservation, len(reservations))
	heldBy := make(map[domain.SlotKey]string, len(reservations))
	for _, r := range reservations {
		byID[r.ID] = r
		heldBy[r.SlotKey()] = r.UserID
	}

	report := &Report{}

	// 2. Записи без заявки
	for _, r := range reservations {
		uc.backfill(ctx, req, r, byKey[r.SlotKey()], report)
	}

	// 3. Заявки без записи
	now := uc.timeProvider.Now()
	for _, c := range claims {
		if !uc.isOrphan(c, byID, heldBy, now) {
			continue
		}
		if req.DryRun {
			report.Released++
			continue
		}

		if err := uc.ledger.Release(ctx, c.Key, ptr.Value(c.ReservationID), c.UserID); err != nil {
			if errors.Is(err, slotclaim.ErrClaimNotFound) {
				continue
			}
			uc.logger.Error("ReconcileClaims: failed to release orphan claim %s: %v", c.Key, err)
			report.Errors++
			continue
		}
		uc.logger.Warn("ReconcileClaims: released orphan claim %s of user=%q", c.Key, c.UserID)
		report.Released++
	}

	uc.logger.Info("ReconcileClaims: done, created=%d, attached=%d, skipped=%d, released=%d, errors=%d",
		report.Created, report.Attached, report.Skipped, report.Released, report.Errors)
	return report, nil
}

func (uc *UseCase) backfill(ctx context.Context, req *Request, r *domain.Reservation, existing *domain.SlotClaim, report *Report) {
	if r.IsDemo() {
		report.Skipped++
		return
	}

	switch {
	case existing == nil:
		if req.DryRun {
			report.Created++
			return
		}
		claim := &domain.SlotClaim{
			Key:           r.SlotKey(),
			Department:    r.Department,
			UserID:        r.UserID,
			ReservationID: ptr.Ptr(r.ID),
			CreatedAt:     r.CreatedAt,
		}
		err := uc.ledger.TryClaim(ctx, claim)
		switch {
		case err == nil:
			uc.logger.Info("ReconcileClaims: restored claim %s for reservation id=%s", claim.Key, r.ID)
			report.Created++
		case errors.Is(err, slotclaim.ErrClaimExists):
			report.Skipped++
		default:
			uc.logger.Error("ReconcileClaims: failed to restore claim %s: %v", claim.Key, err)
			report.Errors++
		}

	case existing.ReservationID == nil && existing.UserID == r.UserID:
		if req.DryRun {
			report.Attached++
			return
		}
		if err := uc.ledger.AttachReservation(ctx, existing.Key, r.ID); err != nil {
			uc.logger.Error("ReconcileClaims: failed to attach reservation id=%s to claim %s: %v", r.ID, existing.Key, err)
			report.Errors++
			return
		}
		report.Attached++

	case existing.BelongsTo(r.ID, r.UserID):
		// согласовано

	default:
		uc.logger.Warn("ReconcileClaims: slot %s of reservation id=%s is held by another claim", existing.Key, r.ID)
		report.Skipped++
	}
}

// isOrphan у заявки нет записи
// Заявка без обратной ссылки сверяется по слоту и пользователю и получает срок на завершение записи
func (uc *UseCase) isOrphan(
	c *domain.SlotClaim,
	byID map[string]*domain.Reservation,
	heldBy map[domain.SlotKey]string,
	now time.Time,
) bool {
	if c.ReservationID != nil {
		_, ok := byID[*c.ReservationID]
		return !ok
	}

	if now.Sub(c.CreatedAt) < uc.config.OrphanGrace {
		return false
	}
	user, ok := heldBy[c.Key]
	return !ok || user != c.UserID
}
