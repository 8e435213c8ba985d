package physician

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/psqlbuilder"
)

// Repository справочник врачей
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория врачей
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		builder: psqlbuilder.For(dialect),
	}
}

// ListByDepartment возвращает врачей отделения в порядке справочника (position, id)
// Порядок стабилен: по нему выбирается первый свободный врач при записи
func (r *Repository) ListByDepartment(ctx context.Context, department string) ([]*domain.Physician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("id", "name", "department", "schedule").
		From("physicians").
		Where(squirrel.Eq{"department": strings.TrimSpace(department)}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDepartment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDepartment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	physicians := make([]*domain.Physician, 0)
	for rows.Next() {
		var p domain.Physician
		var schedule string
		if err := rows.Scan(&p.ID, &p.Name, &p.Department, &schedule); err != nil {
			return nil, fmt.Errorf("%w: ListByDepartment - scan physician: %v", ErrScanRow, err)
		}
		p.Schedule = decodeSchedule(schedule)
		physicians = append(physicians, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDepartment - iterate rows: %v", ErrScanRow, err)
	}

	return physicians, nil
}

// Upsert создает или обновляет врача
// position задает место врача в порядке справочника внутри отделения
func (r *Repository) Upsert(ctx context.Context, p *domain.Physician, position int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	schedule, err := encodeSchedule(p.Schedule)
	if err != nil {
		return err
	}

	query, args, err := r.builder.Insert("physicians").
		Columns("id", "name", "department", "schedule", "position", "updated_at").
		Values(p.ID, p.Name, strings.TrimSpace(p.Department), schedule, position, time.Now().UTC()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			schedule = excluded.schedule,
			position = excluded.position,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Расписание хранится как JSON-объект {"mon": ["09:00", ...], ...}
func encodeSchedule(s domain.WeekdaySchedule) (string, error) {
	if s == nil {
		s = domain.NormalizeSchedule(nil)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeSchedule, err)
	}
	return string(data), nil
}

// Битый JSON дает пустое расписание, а не ошибку
func decodeSchedule(data string) domain.WeekdaySchedule {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return domain.NormalizeSchedule(nil)
	}
	return domain.NormalizeSchedule(raw)
}
