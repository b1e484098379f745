package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresBlobStore keeps blobs in the emi.blobs table
type PostgresBlobStore struct {
	db *sql.DB
}

// NewPostgresBlobStore wraps an open database handle
func NewPostgresBlobStore(db *sql.DB) *PostgresBlobStore {
	return &PostgresBlobStore{db: db}
}

// EnsureSchema creates the blobs table when it does not exist yet
func (r *PostgresBlobStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE SCHEMA IF NOT EXISTS emi;
		CREATE TABLE IF NOT EXISTS emi.blobs (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create blobs table: %w", err)
	}
	return nil
}

// Get retrieves a blob by key
func (r *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	query := `
		SELECT value
		FROM emi.blobs
		WHERE key = $1`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find blob %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or overwrites a blob
func (r *PostgresBlobStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO emi.blobs (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save blob %q: %w", key, err)
	}
	return nil
}

func (r *PostgresBlobStore) Close() error {
	return r.db.Close()
}
