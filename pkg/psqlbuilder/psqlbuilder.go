package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect SQL-диалект хранилища
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect по имени драйвера
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pq":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("psqlbuilder: unsupported driver %q", driver)
	}
}

// For возвращает построитель запросов с плейсхолдерами нужного диалекта
func For(d Dialect) squirrel.StatementBuilderType {
	if d == SQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
