package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

var reservationColumns = []string{
	"id",
	"user_id",
	"department",
	"slot_date",
	"slot_time",
	"physician_id",
	"physician_name",
	"purpose",
	"created_at",
}

// Repository хранилище записей пользователей
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		builder: psqlbuilder.For(dialect),
	}
}

// Create сохраняет запись
// ID (UUID) и время создания проставляются здесь, если не заданы
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.builder.Insert("reservations").
		Columns(reservationColumns...).
		Values(
			res.ID,
			res.UserID,
			res.Department,
			res.Date,
			res.Time,
			res.PhysicianID,
			res.PhysicianName,
			res.Purpose,
			res.CreatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает запись пользователя по ID
// Чужая запись неотличима от отсутствующей
func (r *Repository) GetByID(ctx context.Context, userID, id string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// Delete удаляет запись пользователя
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("reservations").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ExistsForUserSlot у пользователя уже есть запись в отделение на эту дату и время
func (r *Repository) ExistsForUserSlot(ctx context.Context, userID, department, date string, t types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{
			"user_id":    userID,
			"department": department,
			"slot_date":  date,
			"slot_time":  t.String(),
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForUserSlot - build select query: %v", ErrBuildQuery, err)
	}

	var n int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("%w: ExistsForUserSlot - scan count: %v", ErrScanRow, err)
	}
	return n > 0, nil
}

// ListForUserDepartmentDates возвращает (дата, время) записей пользователя в отделение на даты dates
// Даты запрашиваются пачками по domain.MaxQueryInValues
func (r *Repository) ListForUserDepartmentDates(ctx context.Context, userID, department string, dates []string) ([]domain.DateTime, error) {
	out := make([]domain.DateTime, 0)
	if userID == "" || department == "" || len(dates) == 0 {
		return out, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	for start := 0; start < len(dates); start += domain.MaxQueryInValues {
		end := start + domain.MaxQueryInValues
		if end > len(dates) {
			end = len(dates)
		}

		query, args, err := r.builder.Select("slot_date", "slot_time").
			From("reservations").
			Where(squirrel.Eq{
				"user_id":    userID,
				"department": department,
				"slot_date":  dates[start:end],
			}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: ListForUserDepartmentDates - build select query: %v", ErrBuildQuery, err)
		}

		rows, err := executor.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("%w: ListForUserDepartmentDates - execute query: %v", ErrExecQuery, err)
		}

		for rows.Next() {
			var dt domain.DateTime
			if err := rows.Scan(&dt.Date, &dt.Time); err != nil {
				rows.Close()
				return nil, fmt.Errorf("%w: ListForUserDepartmentDates - scan row: %v", ErrScanRow, err)
			}
			out = append(out, dt)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: ListForUserDepartmentDates - iterate rows: %v", ErrScanRow, err)
		}
	}

	return out, nil
}

// ListByUser возвращает записи пользователя по возрастанию даты и времени
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("slot_date ASC", "slot_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, query, args)
}

// ListAll возвращает все записи (для сверки с леджером)
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(reservationColumns...).
		From("reservations").
		OrderBy("slot_date ASC", "slot_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, query, args)
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan reservation: %v", ErrScanRow, err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt types.Timestamp

	if err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Department,
		&res.Date,
		&res.Time,
		&res.PhysicianID,
		&res.PhysicianName,
		&res.Purpose,
		&createdAt,
	); err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	return &res, nil
}
