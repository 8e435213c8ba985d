// Package migrations встроенные SQL-миграции схемы для Postgres и SQLite
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicScheduler/pkg/psqlbuilder"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

const migrationsTable = "schema_migrations"

// Up применяет еще не примененные миграции диалекта по порядку имен файлов
// Каждая миграция выполняется в своей транзакции и записывается в schema_migrations
// Возвращает число примененных миграций
func Up(ctx context.Context, db *sql.DB, dialect psqlbuilder.Dialect) (int, error) {
	if db == nil {
		return 0, errors.New("migrations: db is required")
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return 0, err
	}

	names, err := fs.Glob(files, string(dialect)+"/*.sql")
	if err != nil {
		return 0, fmt.Errorf("migrations: list embedded files: %w", err)
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("migrations: no migrations for dialect %q", dialect)
	}
	sort.Strings(names)

	builder := psqlbuilder.For(dialect)
	applied := 0

	for _, name := range names {
		done, err := isApplied(ctx, db, builder, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		body, err := files.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("migrations: read %s: %w", name, err)
		}

		if err := apply(ctx, db, builder, name, string(body)); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	const query = `
CREATE TABLE IF NOT EXISTS ` + migrationsTable + ` (
	filename   TEXT PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrations: ensure table %s: %w", migrationsTable, err)
	}
	return nil
}

func isApplied(ctx context.Context, db *sql.DB, builder squirrel.StatementBuilderType, name string) (bool, error) {
	query, args, err := builder.Select("COUNT(*)").
		From(migrationsTable).
		Where(squirrel.Eq{"filename": name}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("migrations: build check query: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("migrations: check %s: %w", name, err)
	}
	return n > 0, nil
}

func apply(ctx context.Context, db *sql.DB, builder squirrel.StatementBuilderType, name, body string) error {
	record, args, err := builder.Insert(migrationsTable).
		Columns("filename").
		Values(name).
		ToSql()
	if err != nil {
		return fmt.Errorf("migrations: build record query: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrations: begin tx for %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, body); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migrations: apply %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migrations: record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrations: commit %s: %w", name, err)
	}
	return nil
}
