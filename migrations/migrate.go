// Package migrations holds the goose migrations of the SQL session stores.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// ErrNilDB is returned by Migrate when called without a database.
var ErrNilDB = errors.New("migration error: db is nil")

// gooseDialects maps session store dialects to goose dialect names.
var gooseDialects = map[string]string{
	"postgres": "pgx",
	"sqlite":   "sqlite3",
}

// Migrate applies every pending migration. dialect is "postgres" or
// "sqlite".
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return ErrNilDB
	}

	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("migration error: unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
