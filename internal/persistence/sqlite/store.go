// Package sqlite implements a member-table mirror on an embedded SQLite
// file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"catalogcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Mirror = (*Store)(nil)

// Store implements domain.Mirror over a single members table. Row order is
// insertion order via the position column.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// New opens (creating if needed) a SQLite-backed mirror at path.
func New(path string) (*Store, error) {
	if path == "" {
		path = "catalogcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS members (
		position INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		location TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create members table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// UpsertMember inserts or refreshes a row. Kind is immutable on update.
func (s *Store) UpsertMember(ctx context.Context, record domain.MemberRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO members(id,kind,location) VALUES(?,?,?)
		 ON CONFLICT(id) DO UPDATE SET location=excluded.location`,
		record.ID, record.Kind, record.Location); err != nil {
		return fmt.Errorf("upsert member %s: %w", record.ID, err)
	}
	return nil
}

// DeleteMembers removes rows by id; unknown ids are ignored.
func (s *Store) DeleteMembers(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id=?`, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete member %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadMembers returns all rows in insertion order.
func (s *Store) LoadMembers(ctx context.Context) ([]domain.MemberRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, location FROM members ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.MemberRecord
	for rows.Next() {
		var r domain.MemberRecord
		if err := rows.Scan(&r.ID, &r.Kind, &r.Location); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
