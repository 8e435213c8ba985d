package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/slotclaim"
)

// Ledger леджер слотов в памяти
// TryClaim атомарен за счет общего мьютекса хранилища
type Ledger struct {
	s *Store
}

// TryClaim создает заявку, если ключ свободен, иначе slotclaim.ErrClaimExists
func (l *Ledger) TryClaim(ctx context.Context, claim *domain.SlotClaim) error {
	if err := l.s.lock(OpTryClaim); err != nil {
		return err
	}
	defer l.s.mu.Unlock()

	if _, ok := l.s.claims[claim.Key]; ok {
		return slotclaim.ErrClaimExists
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}
	l.s.claims[claim.Key] = copyClaim(claim)
	return nil
}

// Get заявка по ключу
func (l *Ledger) Get(ctx context.Context, key domain.SlotKey) (*domain.SlotClaim, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	c, ok := l.s.claims[key]
	if !ok {
		return nil, slotclaim.ErrClaimNotFound
	}
	return copyClaim(c), nil
}

// BulkGet заявки врачей physicianIDs на даты dates
func (l *Ledger) BulkGet(ctx context.Context, physicianIDs []string, dates []string) ([]*domain.SlotClaim, error) {
	if err := l.s.lock(OpBulkGetClaims); err != nil {
		return nil, err
	}
	defer l.s.mu.Unlock()

	ids := toSet(physicianIDs)
	ds := toSet(dates)

	out := make([]*domain.SlotClaim, 0)
	for key, c := range l.s.claims {
		_, idOK := ids[key.PhysicianID]
		_, dateOK := ds[key.Date]
		if idOK && dateOK {
			out = append(out, copyClaim(c))
		}
	}
	sortClaims(out)
	return out, nil
}

// ListAll все заявки
func (l *Ledger) ListAll(ctx context.Context) ([]*domain.SlotClaim, error) {
	if err := l.s.lock(OpListClaims); err != nil {
		return nil, err
	}
	defer l.s.mu.Unlock()

	out := make([]*domain.SlotClaim, 0, len(l.s.claims))
	for _, c := range l.s.claims {
		out = append(out, copyClaim(c))
	}
	sortClaims(out)
	return out, nil
}

// Delete безусловно удаляет заявку
func (l *Ledger) Delete(ctx context.Context, key domain.SlotKey) error {
	if err := l.s.lock(OpDeleteClaim); err != nil {
		return err
	}
	defer l.s.mu.Unlock()

	delete(l.s.claims, key)
	return nil
}

// Release удаляет заявку записи reservationID (или пользователя userID, если ссылки нет)
func (l *Ledger) Release(ctx context.Context, key domain.SlotKey, reservationID, userID string) error {
	if err := l.s.lock(OpReleaseClaim); err != nil {
		return err
	}
	defer l.s.mu.Unlock()

	c, ok := l.s.claims[key]
	if !ok || !c.BelongsTo(reservationID, userID) {
		return slotclaim.ErrClaimNotFound
	}
	delete(l.s.claims, key)
	return nil
}

// AttachReservation проставляет обратную ссылку на запись
func (l *Ledger) AttachReservation(ctx context.Context, key domain.SlotKey, reservationID string) error {
	if err := l.s.lock(OpAttachReservation); err != nil {
		return err
	}
	defer l.s.mu.Unlock()

	c, ok := l.s.claims[key]
	if !ok {
		return slotclaim.ErrClaimNotFound
	}
	id := reservationID
	c.ReservationID = &id
	return nil
}

// Len число заявок
func (l *Ledger) Len() int {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return len(l.s.claims)
}

func copyClaim(c *domain.SlotClaim) *domain.SlotClaim {
	cp := *c
	if c.ReservationID != nil {
		id := *c.ReservationID
		cp.ReservationID = &id
	}
	return &cp
}

func sortClaims(claims []*domain.SlotClaim) {
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].Key.String() < claims[j].Key.String()
	})
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
