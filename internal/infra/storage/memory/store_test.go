package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/slotclaim"
)

func TestDirectory_Order(t *testing.T) {
	s := NewStore()
	dir := s.Physicians()
	ctx := context.Background()

	require.NoError(t, dir.Upsert(ctx, &domain.Physician{ID: "doc_b", Department: "ENT"}, 1))
	require.NoError(t, dir.Upsert(ctx, &domain.Physician{ID: "doc_a", Department: "ENT"}, 1))
	require.NoError(t, dir.Upsert(ctx, &domain.Physician{ID: "doc_c", Department: "ENT"}, 0))
	require.NoError(t, dir.Upsert(ctx, &domain.Physician{ID: "doc_x", Department: "Other"}, 0))

	got, err := dir.ListByDepartment(ctx, "ENT")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc_c", "doc_a", "doc_b"}, domain.PhysicianIDs(got))
	assert.NotNil(t, got[0].Schedule)
}

func TestLedger_TryClaimIsAtomic(t *testing.T) {
	s := NewStore()
	ledger := s.Claims()
	key := domain.SlotKey{PhysicianID: "doc_1", Date: "2026-03-02", Time: "09:00"}

	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.TryClaim(context.Background(), &domain.SlotClaim{Key: key, UserID: "u"})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, slotclaim.ErrClaimExists)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, ledger.Len())
}

func TestLedger_ReleaseRespectsOwnership(t *testing.T) {
	s := NewStore()
	ledger := s.Claims()
	ctx := context.Background()
	key := domain.SlotKey{PhysicianID: "doc_1", Date: "2026-03-02", Time: "09:00"}

	require.NoError(t, ledger.TryClaim(ctx, &domain.SlotClaim{Key: key, UserID: "u1"}))
	require.NoError(t, ledger.AttachReservation(ctx, key, "r1"))

	assert.ErrorIs(t, ledger.Release(ctx, key, "r2", "u1"), slotclaim.ErrClaimNotFound)
	require.NoError(t, ledger.Release(ctx, key, "r1", "u1"))
	assert.Equal(t, 0, ledger.Len())
}

func TestLedger_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ledger := s.Claims()
	ctx := context.Background()
	key := domain.SlotKey{PhysicianID: "doc_1", Date: "2026-03-02", Time: "09:00"}

	require.NoError(t, ledger.TryClaim(ctx, &domain.SlotClaim{Key: key, UserID: "u1"}))
	got, err := ledger.Get(ctx, key)
	require.NoError(t, err)
	got.UserID = "mutated"

	again, err := ledger.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "u1", again.UserID)
}

func TestReservations_ScopedByUser(t *testing.T) {
	s := NewStore()
	store := s.Reservations()
	ctx := context.Background()

	created, err := store.Create(ctx, &domain.Reservation{UserID: "u1", Department: "ENT", Date: "2026-03-02", Time: "09:00"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = store.GetByID(ctx, "u2", created.ID)
	assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "u2", created.ID), reservation.ErrReservationNotFound)

	exists, err := store.ExistsForUserSlot(ctx, "u1", "ENT", "2026-03-02", "09:00")
	require.NoError(t, err)
	assert.True(t, exists)

	dts, err := store.ListForUserDepartmentDates(ctx, "u1", "ENT", []string{"2026-03-02", "2026-03-03"})
	require.NoError(t, err)
	assert.Equal(t, []domain.DateTime{{Date: "2026-03-02", Time: "09:00"}}, dts)

	require.NoError(t, store.Delete(ctx, "u1", created.ID))
	assert.Equal(t, 0, store.Len())
}

func TestStore_FailureInjection(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")
	s.Fail(OpCreateReservation, boom)

	_, err := s.Reservations().Create(context.Background(), &domain.Reservation{UserID: "u"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Calls(OpCreateReservation))

	// мьютекс отпущен после сбоя
	s.Fail(OpCreateReservation, nil)
	_, err = s.Reservations().Create(context.Background(), &domain.Reservation{UserID: "u"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Calls(OpCreateReservation))
}
