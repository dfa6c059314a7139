package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

// dialectMap maps database drivers to Goose dialect names
var dialectMap = map[string]string{
	"sqlite": "sqlite3",
	"pgx":    "postgres",
}

// migrationDirs maps database drivers to their migration subdirectory
var migrationDirs = map[string]string{
	"sqlite": "migrations/sqlite",
	"pgx":    "migrations/postgres",
}

// getDialect returns the Goose dialect for the given driver
func getDialect(driver string) string {
	dialect, ok := dialectMap[driver]
	if ok {
		return dialect
	}
	return driver // fallback to driver name
}

// setupGoose configures Goose with the correct dialect and filesystem
func setupGoose(driver string) error {
	dir, ok := migrationDirs[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q (supported: sqlite, pgx)", driver)
	}

	err := goose.SetDialect(getDialect(driver))
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	// Get migrations subdirectory from embed.FS
	migrationsDir, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}

	// Set base filesystem for migrations
	goose.SetBaseFS(migrationsDir)
	return nil
}

func RunMigrations(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully")
	return nil
}

func MigrateDown(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Down(db, ".")
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("rolled back one migration")
	return nil
}

// Column is an optional column added after the first release.
type Column struct {
	Name     string
	SQLite   string
	Postgres string
}

func (c Column) typeFor(driver string) string {
	if driver == "pgx" {
		return c.Postgres
	}
	return c.SQLite
}

// PhotoColumns are the optional photo fields. Catalogs opened by older builds
// get them added in place; nothing is ever dropped or renamed.
var PhotoColumns = []Column{
	{Name: "photo_time", SQLite: "TEXT", Postgres: "TEXT"},
	{Name: "photo_season", SQLite: "TEXT", Postgres: "TEXT"},
	{Name: "photo_weather", SQLite: "TEXT", Postgres: "TEXT"},
	{Name: "photo_location", SQLite: "TEXT", Postgres: "TEXT"},
	{Name: "photo_style", SQLite: "TEXT", Postgres: "TEXT"},
	{Name: "latitude", SQLite: "REAL", Postgres: "DOUBLE PRECISION"},
	{Name: "longitude", SQLite: "REAL", Postgres: "DOUBLE PRECISION"},
	{Name: "focal_length", SQLite: "REAL", Postgres: "DOUBLE PRECISION"},
}

// EnsureColumns adds every column in columns that table is missing.
// It is safe to run on every open. Returns the names of the columns it added.
func EnsureColumns(db *sqlx.DB, driver, table string, columns []Column) ([]string, error) {
	existing, err := TableColumns(db, driver, table)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	var added []string
	for _, col := range columns {
		if have[col.Name] {
			continue
		}
		// Identifiers come from the static column list above, never from input.
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, col.Name, col.typeFor(driver))
		_, err = db.Exec(query)
		if err != nil {
			return added, fmt.Errorf("failed to add column %s: %w", col.Name, err)
		}
		added = append(added, col.Name)
	}

	if len(added) > 0 {
		slog.Info("catalog columns added", "table", table, "columns", added)
	}
	return added, nil
}

// TableColumns lists the column names of table.
func TableColumns(db *sqlx.DB, driver, table string) ([]string, error) {
	var query string
	switch driver {
	case "sqlite":
		query = `SELECT name FROM pragma_table_info($1)`
	case "pgx":
		query = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	var names []string
	err := db.Select(&names, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect columns of %s: %w", table, err)
	}
	return names, nil
}
