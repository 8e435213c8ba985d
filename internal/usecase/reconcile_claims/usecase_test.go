package reconcile_claims

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/logger"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/ptr"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newUseCase(store *memory.Store) *UseCase {
	uc := NewUseCase(store.Claims(), store.Reservations(), Config{OrphanGrace: 10 * time.Minute}, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func addReservation(t *testing.T, store *memory.Store, userID, physicianID, tm string) *domain.Reservation {
	t.Helper()
	res, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID: userID, Department: "Cardiology", Date: "2026-03-09", Time: types.TimeString(tm),
		PhysicianID: physicianID, CreatedAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	return res
}

func addClaim(t *testing.T, store *memory.Store, userID, physicianID, tm string, reservationID *string, age time.Duration) domain.SlotKey {
	t.Helper()
	key := domain.SlotKey{PhysicianID: physicianID, Date: "2026-03-09", Time: types.TimeString(tm)}
	require.NoError(t, store.Claims().TryClaim(context.Background(), &domain.SlotClaim{
		Key: key, Department: "Cardiology", UserID: userID, ReservationID: reservationID, CreatedAt: now.Add(-age),
	}))
	return key
}

func TestExecute_BackfillIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r1 := addReservation(t, store, "u1", "doc_1", "09:00")
	addReservation(t, store, "u2", domain.DemoPhysicianID, "10:00")

	uc := newUseCase(store)
	report, err := uc.Execute(ctx, &Request{})
	require.NoError(t, err)
	assert.Equal(t, &Report{Created: 1, Skipped: 1}, report)

	claim, err := store.Claims().Get(ctx, r1.SlotKey())
	require.NoError(t, err)
	assert.Equal(t, ptr.Value(claim.ReservationID), r1.ID)

	report, err = uc.Execute(ctx, &Request{})
	require.NoError(t, err)
	assert.Equal(t, &Report{Skipped: 1}, report)
	assert.Equal(t, 1, store.Claims().Len())
}

func TestExecute_AttachesMissingBackReference(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r1 := addReservation(t, store, "u1", "doc_1", "09:00")
	key := addClaim(t, store, "u1", "doc_1", "09:00", nil, time.Hour)

	report, err := newUseCase(store).Execute(ctx, &Request{})
	require.NoError(t, err)
	assert.Equal(t, &Report{Attached: 1}, report)

	claim, err := store.Claims().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, ptr.Value(claim.ReservationID))
}

func TestExecute_ReleasesOrphans(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// обратная ссылка на удаленную запись
	addClaim(t, store, "u1", "doc_1", "09:00", ptr.Ptr("gone"), time.Hour)
	// без ссылки и без записи, старше срока
	addClaim(t, store, "u2", "doc_1", "09:15", nil, time.Hour)
	// без ссылки, создание записи еще идет
	fresh := addClaim(t, store, "u3", "doc_1", "09:30", nil, time.Minute)

	uc := newUseCase(store)

	dry, err := uc.Execute(ctx, &Request{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, &Report{Released: 2}, dry)
	assert.Equal(t, 3, store.Claims().Len())

	report, err := uc.Execute(ctx, &Request{})
	require.NoError(t, err)
	assert.Equal(t, &Report{Released: 2}, report)
	assert.Equal(t, 1, store.Claims().Len())

	_, err = store.Claims().Get(ctx, fresh)
	assert.NoError(t, err)
}

func TestExecute_SlotHeldByAnotherUser(t *testing.T) {
	store := memory.NewStore()
	addReservation(t, store, "u1", "doc_1", "09:00")
	addClaim(t, store, "u2", "doc_1", "09:00", ptr.Ptr("r-other"), time.Hour)

	report, err := newUseCase(store).Execute(context.Background(), &Request{})
	require.NoError(t, err)
	// слот держит чужая заявка, ссылающаяся на несуществующую запись: она освобождается,
	// заявка для u1 восстановится следующим запуском
	assert.Equal(t, &Report{Skipped: 1, Released: 1}, report)
}

func TestExecute_ReadFailures(t *testing.T) {
	for _, op := range []memory.Op{memory.OpListReservations, memory.OpListClaims} {
		t.Run(string(op), func(t *testing.T) {
			store := memory.NewStore()
			store.Fail(op, errors.New("boom"))

			_, err := newUseCase(store).Execute(context.Background(), &Request{})
			assert.ErrorIs(t, err, ErrInternal)
		})
	}
}

func TestExecute_WriteFailuresAreCounted(t *testing.T) {
	store := memory.NewStore()
	addReservation(t, store, "u1", "doc_1", "09:00")
	store.Fail(memory.OpTryClaim, errors.New("boom"))

	report, err := newUseCase(store).Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, &Report{Errors: 1}, report)
}
