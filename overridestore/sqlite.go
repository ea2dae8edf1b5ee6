package overridestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/katalvlaran/gramwalk/override"
)

const schema = `
CREATE TABLE IF NOT EXISTS override_entries (
    fingerprint TEXT PRIMARY KEY,
    position    INTEGER NOT NULL,
    record      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_override_entries_position ON override_entries(position);
`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("overridestore: create database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("overridestore: open database: %w", err)
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("overridestore: apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Save implements Store.
func (s *SQLite) Save(ctx context.Context, entries []override.Entry) error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("overridestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM override_entries`); err != nil {
		return fmt.Errorf("overridestore: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO override_entries (fingerprint, position, record) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("overridestore: prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Fingerprint, i, override.EncodeEntry(e)); err != nil {
			return fmt.Errorf("overridestore: insert %q: %w", e.Fingerprint, err)
		}
	}

	return tx.Commit()
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context) ([]override.Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM override_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("overridestore: query: %w", err)
	}
	defer rows.Close()

	var entries []override.Entry
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("overridestore: scan: %w", err)
		}
		e, err := override.DecodeEntry(record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close implements Store.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil

	return err
}
