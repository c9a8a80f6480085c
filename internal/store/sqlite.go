package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inv-go/internal/inv"
	"inv-go/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps each value as one row of the state table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database at path, or an in-memory database for
// ":memory:", and brings its schema up to date.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating state database: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single writer; also keeps ":memory:" on one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM state WHERE key = ?", key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return payload, nil
}

func (s *SQLiteStore) Put(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO state (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM state WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// CheckSchema reports whether the database schema is current.
func (s *SQLiteStore) CheckSchema() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStore implements inv.Store
var _ inv.Store = (*SQLiteStore)(nil)
