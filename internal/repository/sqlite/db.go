// Package sqlite provides the SQLite-backed local storage layer
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB with SQLite-specific optimizations
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection with optimizations for shared hosting
func New(dbPath string) (*DB, error) {
	// Validate and clean the path to prevent path traversal
	cleanPath := filepath.Clean(dbPath)

	if !filepath.IsLocal(cleanPath) && !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("invalid database path: potential path traversal detected")
	}

	// Ensure the directory exists
	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode for better concurrent read performance,
	// busy_timeout to handle lock contention gracefully
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=cache_size(2000)", cleanPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection to minimize memory on constrained hosts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Verify the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		// Local key-value storage. Whole collections are stored as JSON
		// arrays under fixed keys.
		`CREATE TABLE IF NOT EXISTS storage (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
