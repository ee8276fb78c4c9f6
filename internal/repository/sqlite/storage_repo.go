package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// StorageRepo implements repository.KeyValueStore
type StorageRepo struct {
	db *DB
}

// NewStorageRepo creates a new StorageRepo
func NewStorageRepo(db *DB) *StorageRepo {
	return &StorageRepo{db: db}
}

// Get retrieves a stored value by key
func (r *StorageRepo) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM storage WHERE key = ?`
	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil // Return empty string if not found, not an error
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

// Set updates or creates a stored value
func (r *StorageRepo) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}
