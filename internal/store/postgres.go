package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the snapshot in a single row of a key-value table,
// for deployments where the editor state must survive the local filesystem.
type PostgresStore struct {
	pool *pgxpool.Pool
	slot string
}

// snapshotsTable holds one row per slot name.
const snapshotsTable = `
CREATE TABLE IF NOT EXISTS resume_snapshots (
    slot       TEXT PRIMARY KEY,
    content    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// NewPostgresStore connects to the database and ensures the snapshot table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL, slot string) (*PostgresStore, error) {
	if slot == "" {
		slot = DefaultSlot
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, snapshotsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure snapshot table: %w", err)
	}

	return &PostgresStore{pool: pool, slot: slot}, nil
}

// Load reads the snapshot row, or ErrNotFound when the slot is empty.
func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM resume_snapshots WHERE slot = $1`, s.slot,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, nil
}

// Save upserts the snapshot row.
func (s *PostgresStore) Save(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resume_snapshots (slot, content)
		 VALUES ($1, $2)
		 ON CONFLICT (slot) DO UPDATE SET content = $2, updated_at = NOW()`,
		s.slot, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot row. A missing row is not an error.
func (s *PostgresStore) Delete(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM resume_snapshots WHERE slot = $1`, s.slot)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
