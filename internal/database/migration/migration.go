// Package migration applies the versioned schema migrations embedded in this
// binary. Migrations run once at startup; an already up-to-date database is
// not an error.
package migration

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Up brings the database schema to the latest embedded version.
func Up(db *sql.DB, dbHost string) error {
	start := time.Now()

	logJSON(map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	m, err := newMigrate(db)
	if err != nil {
		logFailure(dbHost, err, start)
		return err
	}
	// The migrate instance is not closed here: closing it would close the
	// *sql.DB the caller owns.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logFailure(dbHost, err, start)
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logFailure(dbHost, err, start)
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		err := fmt.Errorf("database is dirty at version %d", version)
		logFailure(dbHost, err, start)
		return err
	}

	logJSON(map[string]any{
		"component":      "database",
		"event":          "db_migration_success",
		"status":         "success",
		"schema_version": version,
		"db_host":        dbHost,
		"duration_ms":    time.Since(start).Milliseconds(),
	})

	return nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func logFailure(dbHost string, err error, start time.Time) {
	logJSON(map[string]any{
		"component":     "database",
		"event":         "db_migration_failed",
		"status":        "error",
		"error_message": err.Error(),
		"db_host":       dbHost,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
