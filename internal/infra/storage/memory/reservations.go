package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// Reservations записи пользователей в памяти
type Reservations struct {
	s *Store
}

// Create сохраняет запись, проставляя ID и время создания
func (r *Reservations) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if err := r.s.lock(OpCreateReservation); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	cp := *res
	r.s.reservations[res.ID] = &cp
	return res, nil
}

// GetByID запись пользователя по ID
func (r *Reservations) GetByID(ctx context.Context, userID, id string) (*domain.Reservation, error) {
	if err := r.s.lock(OpGetReservation); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	res, ok := r.s.reservations[id]
	if !ok || res.UserID != userID {
		return nil, reservation.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

// Delete удаляет запись пользователя
func (r *Reservations) Delete(ctx context.Context, userID, id string) error {
	if err := r.s.lock(OpDeleteReservation); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	res, ok := r.s.reservations[id]
	if !ok || res.UserID != userID {
		return reservation.ErrReservationNotFound
	}
	delete(r.s.reservations, id)
	return nil
}

// ExistsForUserSlot есть ли у пользователя запись в отделение на дату и время
func (r *Reservations) ExistsForUserSlot(ctx context.Context, userID, department, date string, t types.TimeString) (bool, error) {
	if err := r.s.lock(OpExistsReservation); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	for _, res := range r.s.reservations {
		if res.UserID == userID && res.Department == department && res.Date == date && res.Time == t {
			return true, nil
		}
	}
	return false, nil
}

// ListForUserDepartmentDates (дата, время) записей пользователя в отделение на даты dates
func (r *Reservations) ListForUserDepartmentDates(ctx context.Context, userID, department string, dates []string) ([]domain.DateTime, error) {
	if err := r.s.lock(OpListUserDates); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	ds := toSet(dates)
	out := make([]domain.DateTime, 0)
	for _, res := range r.s.reservations {
		if _, ok := ds[res.Date]; ok && res.UserID == userID && res.Department == department {
			out = append(out, domain.DateTime{Date: res.Date, Time: res.Time})
		}
	}
	return out, nil
}

// ListByUser записи пользователя по возрастанию даты и времени
func (r *Reservations) ListByUser(ctx context.Context, userID string) ([]*domain.Reservation, error) {
	return r.list(func(res *domain.Reservation) bool { return res.UserID == userID })
}

// ListAll все записи
func (r *Reservations) ListAll(ctx context.Context) ([]*domain.Reservation, error) {
	return r.list(func(*domain.Reservation) bool { return true })
}

// Len число записей
func (r *Reservations) Len() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.reservations)
}

func (r *Reservations) list(match func(*domain.Reservation) bool) ([]*domain.Reservation, error) {
	if err := r.s.lock(OpListReservations); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	out := make([]*domain.Reservation, 0)
	for _, res := range r.s.reservations {
		if match(res) {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
