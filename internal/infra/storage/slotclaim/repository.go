package slotclaim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

var claimColumns = []string{
	"physician_id",
	"slot_date",
	"slot_time",
	"department",
	"user_id",
	"reservation_id",
	"created_at",
}

// Repository леджер занятых слотов
// Единственный источник истины о том, какой врач занят в какой дате и времени
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр леджера
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		builder: psqlbuilder.For(dialect),
	}
}

// TryClaim атомарно создает заявку, если ключ свободен
// Если ключ уже занят, возвращает ErrClaimExists и ничего не меняет
func (r *Repository) TryClaim(ctx context.Context, claim *domain.SlotClaim) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.builder.Insert("slot_claims").
		Columns(claimColumns...).
		Values(
			claim.Key.PhysicianID,
			claim.Key.Date,
			claim.Key.Time,
			claim.Department,
			claim.UserID,
			claim.ReservationID,
			claim.CreatedAt,
		).
		Suffix("ON CONFLICT (physician_id, slot_date, slot_time) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TryClaim - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TryClaim - execute insert: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TryClaim - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrClaimExists
	}

	return nil
}

// Get возвращает заявку по ключу
func (r *Repository) Get(ctx context.Context, key domain.SlotKey) (*domain.SlotClaim, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(claimColumns...).
		From("slot_claims").
		Where(keyEq(key)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	claim, err := scanClaim(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan claim: %v", ErrScanRow, err)
	}

	return claim, nil
}

// BulkGet возвращает все заявки врачей physicianIDs на даты dates одним логическим чтением
// Даты запрашиваются пачками по domain.MaxQueryInValues, фильтр по врачам применяется в памяти
func (r *Repository) BulkGet(ctx context.Context, physicianIDs []string, dates []string) ([]*domain.SlotClaim, error) {
	claims := make([]*domain.SlotClaim, 0)
	if len(physicianIDs) == 0 || len(dates) == 0 {
		return claims, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	wanted := make(map[string]struct{}, len(physicianIDs))
	for _, id := range physicianIDs {
		wanted[id] = struct{}{}
	}

	for start := 0; start < len(dates); start += domain.MaxQueryInValues {
		end := start + domain.MaxQueryInValues
		if end > len(dates) {
			end = len(dates)
		}

		query, args, err := r.builder.Select(claimColumns...).
			From("slot_claims").
			Where(squirrel.Eq{"slot_date": dates[start:end]}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: BulkGet - build select query: %v", ErrBuildQuery, err)
		}

		chunk, err := r.queryClaims(ctx, executor, query, args)
		if err != nil {
			return nil, fmt.Errorf("BulkGet: %w", err)
		}

		for _, c := range chunk {
			if _, ok := wanted[c.Key.PhysicianID]; ok {
				claims = append(claims, c)
			}
		}
	}

	return claims, nil
}

// ListAll возвращает все заявки леджера (для сверки с записями)
func (r *Repository) ListAll(ctx context.Context) ([]*domain.SlotClaim, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(claimColumns...).
		From("slot_claims").
		OrderBy("slot_date", "slot_time", "physician_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	claims, err := r.queryClaims(ctx, executor, query, args)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return claims, nil
}

// Delete безусловно удаляет заявку (откат неудачной записи)
// Отсутствие заявки ошибкой не считается
func (r *Repository) Delete(ctx context.Context, key domain.SlotKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("slot_claims").
		Where(keyEq(key)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

// Release освобождает слот при отмене записи reservationID
// Заявка удаляется, только если ссылается на эту запись, либо ссылки нет и совпадает пользователь
// Если подходящей заявки нет, возвращает ErrClaimNotFound
func (r *Repository) Release(ctx context.Context, key domain.SlotKey, reservationID, userID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("slot_claims").
		Where(keyEq(key)).
		Where(squirrel.Or{
			squirrel.Eq{"reservation_id": reservationID},
			squirrel.And{
				squirrel.Eq{"reservation_id": nil},
				squirrel.Eq{"user_id": userID},
			},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrClaimNotFound
	}
	return nil
}

// AttachReservation проставляет заявке обратную ссылку на созданную запись
func (r *Repository) AttachReservation(ctx context.Context, key domain.SlotKey, reservationID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update("slot_claims").
		Set("reservation_id", reservationID).
		Where(keyEq(key)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachReservation - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AttachReservation - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachReservation - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrClaimNotFound
	}
	return nil
}

func (r *Repository) queryClaims(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.SlotClaim, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	claims := make([]*domain.SlotClaim, 0)
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
	}

	return claims, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row rowScanner) (*domain.SlotClaim, error) {
	var claim domain.SlotClaim
	var slotTime types.TimeString
	var reservationID sql.NullString
	var createdAt types.Timestamp

	if err := row.Scan(
		&claim.Key.PhysicianID,
		&claim.Key.Date,
		&slotTime,
		&claim.Department,
		&claim.UserID,
		&reservationID,
		&createdAt,
	); err != nil {
		return nil, err
	}

	claim.Key.Time = slotTime
	if reservationID.Valid {
		id := reservationID.String
		claim.ReservationID = &id
	}
	claim.CreatedAt = createdAt.Time

	return &claim, nil
}

func keyEq(key domain.SlotKey) squirrel.Eq {
	return squirrel.Eq{
		"physician_id": key.PhysicianID,
		"slot_date":    key.Date,
		"slot_time":    key.Time.String(),
	}
}
