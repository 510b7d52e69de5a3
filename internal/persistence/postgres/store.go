// Package postgres implements a member-table mirror on PostgreSQL, for
// deployments where several tools share one durable membership view.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"catalogcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Mirror = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/catalogcore?sslmode=disable"
)

// Store implements domain.Mirror over a members table.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens a Postgres-backed mirror using the provided DSN (falls back to
// a local default) and ensures the members table exists.
func New(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS members (
		position BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		location TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create members table: %w", err)
	}
	return &Store{db: db}, nil
}

// UpsertMember inserts or refreshes a row. Kind is immutable on update.
func (s *Store) UpsertMember(ctx context.Context, record domain.MemberRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO members(id,kind,location) VALUES($1,$2,$3)
		 ON CONFLICT (id) DO UPDATE SET location=EXCLUDED.location`,
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
		if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id=$1`, id); err != nil {
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
