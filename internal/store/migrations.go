package store

import (
	"database/sql"
	"fmt"
)

// Migration is one versioned step of the snapshot schema.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations returns the schema migrations in order.
func Migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_snapshot_tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS snapshots (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					n INTEGER NOT NULL CHECK (n >= 1),
					tokenizer TEXT NOT NULL,
					created_at TEXT NOT NULL,
					total INTEGER NOT NULL,
					distinct_ngrams INTEGER NOT NULL
				);

				-- tokens holds the n-gram as a JSON array of strings
				CREATE TABLE IF NOT EXISTS ngrams (
					snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
					tokens TEXT NOT NULL,
					count INTEGER NOT NULL CHECK (count >= 1)
				);

				-- Load reads one snapshot's rows by descending count
				CREATE INDEX IF NOT EXISTS idx_ngrams_snapshot_count ON ngrams (snapshot_id, count DESC);
			`,
		},
	}
}

// runMigrations applies every migration newer than the recorded version.
func runMigrations(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := currentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, m := range Migrations() {
		if m.Version <= current {
			continue // Already applied
		}
		if err := runMigration(db, m); err != nil {
			return fmt.Errorf("failed to run migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func currentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

func runMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.Version, m.Name,
	); err != nil {
		return err
	}

	return tx.Commit()
}
