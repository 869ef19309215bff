package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists descriptors in a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS led_state (
			name       TEXT PRIMARY KEY,
			descriptor TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create led_state table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(name, descriptor string) error {
	_, err := s.db.Exec(`
		INSERT INTO led_state (name, descriptor, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			descriptor = excluded.descriptor,
			updated_at = excluded.updated_at
	`, name, descriptor, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save descriptor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(name string) (string, error) {
	var descriptor string
	err := s.db.QueryRow(
		`SELECT descriptor FROM led_state WHERE name = ?`, name,
	).Scan(&descriptor)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load descriptor: %w", err)
	}
	return descriptor, nil
}

func (s *SQLiteStore) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM led_state WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete descriptor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
