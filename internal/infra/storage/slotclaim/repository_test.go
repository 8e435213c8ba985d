package slotclaim

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/migrations"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/ptr"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = migrations.Up(context.Background(), db, psqlbuilder.SQLite)
	require.NoError(t, err)

	return NewRepository(db, psqlbuilder.SQLite)
}

func newClaim(physicianID, date, tm, userID string) *domain.SlotClaim {
	return &domain.SlotClaim{
		Key:        domain.SlotKey{PhysicianID: physicianID, Date: date, Time: types.TimeString(tm)},
		Department: "Cardiology",
		UserID:     userID,
	}
}

func TestRepository_TryClaim(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := newClaim("doc_1", "2026-03-02", "09:00", "user_a")
	require.NoError(t, repo.TryClaim(ctx, first))

	// тот же ключ занят, независимо от пользователя
	second := newClaim("doc_1", "2026-03-02", "09:00", "user_b")
	assert.ErrorIs(t, repo.TryClaim(ctx, second), ErrClaimExists)

	// другой врач в то же время свободен
	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_2", "2026-03-02", "09:00", "user_b")))

	got, err := repo.Get(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, "user_a", got.UserID)
	assert.Equal(t, "Cardiology", got.Department)
	assert.Nil(t, got.ReservationID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), domain.SlotKey{PhysicianID: "doc_x", Date: "2026-03-02", Time: "09:00"})
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestRepository_BulkGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_1", "2026-03-02", "09:00", "u")))
	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_1", "2026-03-03", "10:00", "u")))
	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_2", "2026-03-02", "09:00", "u")))
	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_other", "2026-03-02", "09:00", "u")))
	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_1", "2026-04-01", "09:00", "u")))

	claims, err := repo.BulkGet(ctx, []string{"doc_1", "doc_2"}, []string{"2026-03-02", "2026-03-03"})
	require.NoError(t, err)

	keys := make([]string, 0, len(claims))
	for _, c := range claims {
		keys = append(keys, c.Key.String())
	}
	assert.ElementsMatch(t, []string{
		"doc_1_2026-03-02_09:00",
		"doc_1_2026-03-03_10:00",
		"doc_2_2026-03-02_09:00",
	}, keys)
}

func TestRepository_BulkGet_ChunksDates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	dates := make([]string, 0, 45)
	for i := 0; i < 45; i++ {
		date := fmt.Sprintf("2027-%02d-%02d", 1+i/28, 1+i%28)
		dates = append(dates, date)
		require.NoError(t, repo.TryClaim(ctx, newClaim("doc_1", date, "09:00", "u")))
	}

	claims, err := repo.BulkGet(ctx, []string{"doc_1"}, dates)
	require.NoError(t, err)
	assert.Len(t, claims, 45)
}

func TestRepository_BulkGet_EmptyInput(t *testing.T) {
	repo := newTestRepository(t)

	claims, err := repo.BulkGet(context.Background(), nil, []string{"2026-03-02"})
	require.NoError(t, err)
	assert.Empty(t, claims)

	claims, err = repo.BulkGet(context.Background(), []string{"doc_1"}, nil)
	require.NoError(t, err)
	assert.Empty(t, claims)
}

func TestRepository_DeleteFreesKey(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	claim := newClaim("doc_1", "2026-03-02", "09:00", "u")
	require.NoError(t, repo.TryClaim(ctx, claim))
	require.NoError(t, repo.Delete(ctx, claim.Key))

	// повторное удаление не ошибка
	require.NoError(t, repo.Delete(ctx, claim.Key))

	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_1", "2026-03-02", "09:00", "other")))
}

func TestRepository_AttachAndRelease(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	claim := newClaim("doc_1", "2026-03-02", "09:00", "user_a")
	require.NoError(t, repo.TryClaim(ctx, claim))
	require.NoError(t, repo.AttachReservation(ctx, claim.Key, "res_1"))

	got, err := repo.Get(ctx, claim.Key)
	require.NoError(t, err)
	require.NotNil(t, got.ReservationID)
	assert.Equal(t, "res_1", *got.ReservationID)

	// чужая запись не освобождает слот, даже от имени того же пользователя
	assert.ErrorIs(t, repo.Release(ctx, claim.Key, "res_other", "user_a"), ErrClaimNotFound)

	require.NoError(t, repo.Release(ctx, claim.Key, "res_1", "user_a"))
	_, err = repo.Get(ctx, claim.Key)
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestRepository_Release_WithoutBackReference(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	claim := newClaim("doc_1", "2026-03-02", "09:00", "user_a")
	require.NoError(t, repo.TryClaim(ctx, claim))

	assert.ErrorIs(t, repo.Release(ctx, claim.Key, "res_1", "user_b"), ErrClaimNotFound)
	require.NoError(t, repo.Release(ctx, claim.Key, "res_1", "user_a"))
}

func TestRepository_AttachReservation_Missing(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.AttachReservation(context.Background(), domain.SlotKey{PhysicianID: "doc_1", Date: "2026-03-02", Time: "09:00"}, "res_1")
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestRepository_ListAll(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	withRef := newClaim("doc_1", "2026-03-03", "09:00", "u")
	withRef.ReservationID = ptr.Ptr("res_1")
	require.NoError(t, repo.TryClaim(ctx, withRef))
	require.NoError(t, repo.TryClaim(ctx, newClaim("doc_1", "2026-03-02", "09:00", "u")))

	claims, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "2026-03-02", claims[0].Key.Date)
	assert.Nil(t, claims[0].ReservationID)
	require.NotNil(t, claims[1].ReservationID)
	assert.Equal(t, "res_1", *claims[1].ReservationID)
}
