package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/slotclaim"
)

// Service сервис отмены и чтения записей
type Service struct {
	reservationRepo ReservationRepository
	ledger          ClaimLedger
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	reservationRepo ReservationRepository,
	ledger ClaimLedger,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		ledger:          ledger,
		logger:          logger,
	}
}

// Cancel отменяет запись пользователя
// Сначала освобождается слот в леджере, затем удаляется запись
// Сбой освобождения слота не мешает отмене: устаревшую заявку подберет reconcile
func (s *Service) Cancel(ctx context.Context, userID, reservationID string) error {
	userID = strings.TrimSpace(userID)
	reservationID = strings.TrimSpace(reservationID)
	s.logger.Info("Cancel: user=%q, reservation=%q", userID, reservationID)

	if userID == "" || reservationID == "" {
		return fmt.Errorf("%w: user id and reservation id are required", ErrInvalidInput)
	}

	res, err := s.get(ctx, "Cancel", userID, reservationID)
	if err != nil {
		return err
	}

	if res.IsDemo() {
		s.logger.Info("Cancel: reservation id=%s is a demo booking, no claim to release", res.ID)
	} else if err := s.ledger.Release(ctx, res.SlotKey(), res.ID, userID); err != nil {
		if errors.Is(err, slotclaim.ErrClaimNotFound) {
			s.logger.Warn("Cancel: claim %s for reservation id=%s not found or owned by another reservation", res.SlotKey(), res.ID)
		} else {
			s.logger.Error("Cancel: failed to release claim %s for reservation id=%s: %v", res.SlotKey(), res.ID, err)
		}
	}

	if err := s.reservationRepo.Delete(ctx, userID, res.ID); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%s disappeared before delete", res.ID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: failed to delete reservation id=%s: %v", res.ID, err)
		return fmt.Errorf("%w: Cancel - delete reservation: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: reservation id=%s cancelled", res.ID)
	return nil
}

// GetByID запись пользователя по идентификатору
func (s *Service) GetByID(ctx context.Context, userID, reservationID string) (*domain.Reservation, error) {
	return s.get(ctx, "GetByID", strings.TrimSpace(userID), strings.TrimSpace(reservationID))
}

// ListByUser все записи пользователя по дате и времени
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*domain.Reservation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	list, err := s.reservationRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%q: %v", userID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByUser: found %d reservations for user=%q", len(list), userID)
	return list, nil
}

func (s *Service) get(ctx context.Context, op, userID, reservationID string) (*domain.Reservation, error) {
	if userID == "" || reservationID == "" {
		return nil, fmt.Errorf("%w: user id and reservation id are required", ErrInvalidInput)
	}

	res, err := s.reservationRepo.GetByID(ctx, userID, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%s not found for user=%q", op, reservationID, userID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%s: %v", op, reservationID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}
