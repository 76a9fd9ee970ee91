// Package history persists past searches in a local SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sonar/internal/domain"
)

// Store is the SQLite-backed history store
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at dbPath
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	return store, nil
}

// initTables initializes database tables
func (s *Store) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			k INTEGER NOT NULL,
			answer TEXT NOT NULL,
			sources TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute SQL: %s, error: %w", query, err)
		}
	}
	return nil
}

// Append records one completed search
func (s *Store) Append(entry domain.HistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	sources, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO searches (id, query, k, answer, sources, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, entry.K, entry.Answer, string(sources), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(limit int) ([]domain.HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, query, k, answer, sources, created_at FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return entries, nil
}

// Get returns a single entry by id
func (s *Store) Get(id string) (*domain.HistoryEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, query, k, answer, sources, created_at FROM searches WHERE id = ?`,
		id,
	)
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// scanEntry reads one row into an entry, decoding the stored sources.
// A row whose sources column fails to decode is returned without
// sources rather than erroring out the whole listing.
func scanEntry(scan func(...any) error) (domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	var sources string
	if err := scan(&entry.ID, &entry.Query, &entry.K, &entry.Answer, &sources, &entry.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return entry, err
		}
		return entry, fmt.Errorf("failed to scan history entry: %w", err)
	}
	_ = json.Unmarshal([]byte(sources), &entry.Sources)
	entry.SourceCount = len(entry.Sources)
	return entry, nil
}

// Count returns the number of stored entries
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM searches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Clear removes all entries and reports how many were deleted
func (s *Store) Clear() (int, error) {
	res, err := s.db.Exec(`DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	removed, _ := res.RowsAffected()
	return int(removed), nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
