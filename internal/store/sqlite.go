package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"histongram/pkg/ngram"

	_ "modernc.org/sqlite"
)

// SQLite is a persistent storage implementation using SQLite.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens or creates the snapshot database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection; one connection keeps foreign keys on.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLite) init() error {
	// Configure SQLite
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma failed: %w", err)
		}
	}

	if err := runMigrations(s.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Save replaces any snapshot with the same name.
func (s *SQLite) Save(ctx context.Context, snap *Snapshot) error {
	prepare(snap)
	sum := snap.Summary()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE name = ?", snap.Name); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, name, n, tokenizer, created_at, total, distinct_ngrams)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.N, snap.Tokenizer,
		snap.CreatedAt.UTC().Format(time.RFC3339Nano), sum.Total, sum.Distinct)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO ngrams (snapshot_id, tokens, count) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range snap.Entries {
		tokens, err := json.Marshal(e.Ngram)
		if err != nil {
			return fmt.Errorf("failed to encode n-gram: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, snap.ID, string(tokens), e.Count); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load returns the named snapshot with entries ordered by descending count.
func (s *SQLite) Load(ctx context.Context, name string) (*Snapshot, error) {
	var snap Snapshot
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, n, tokenizer, created_at FROM snapshots WHERE name = ?", name).
		Scan(&snap.ID, &snap.Name, &snap.N, &snap.Tokenizer, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for %s: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT tokens, count FROM ngrams WHERE snapshot_id = ? ORDER BY count DESC, rowid", snap.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap.Entries = []ngram.Entry[string]{}
	for rows.Next() {
		var tokens string
		var e ngram.Entry[string]
		if err := rows.Scan(&tokens, &e.Count); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tokens), &e.Ngram); err != nil {
			return nil, fmt.Errorf("invalid n-gram in %s: %w", name, err)
		}
		snap.Entries = append(snap.Entries, e)
	}

	return &snap, rows.Err()
}

// List returns all snapshot summaries ordered by name.
func (s *SQLite) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, n, tokenizer, created_at, total, distinct_ngrams
		 FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sum Summary
		var createdAt string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.N, &sum.Tokenizer, &createdAt, &sum.Total, &sum.Distinct); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at for %s: %w", sum.Name, err)
		}
		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// Delete removes the named snapshot and its n-grams.
func (s *SQLite) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
