// Package session routes planning requests by lifecycle stage and
// persists session state in a local SQLite database.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"wayfarer/internal/logging"
	"wayfarer/internal/research"
	"wayfarer/internal/trip"
)

// Record is one persisted planning session.
type Record struct {
	ID        string
	Stage     Stage
	Items     []trip.ScheduleItem
	Findings  []research.Finding
	UpdatedAt time.Time
}

// Store persists session records in SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewStore opens (creating if needed) the session database at path.
func NewStore(path string) (*Store, error) {
	log := logging.Get(logging.CategoryStore)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Warn("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Warn("failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("session store opened at %s", path)
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		stage TEXT NOT NULL,
		items_json TEXT NOT NULL,
		findings_json TEXT NOT NULL DEFAULT '[]',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save upserts a session record.
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	findings, err := json.Marshal(rec.Findings)
	if err != nil {
		return fmt.Errorf("failed to encode findings: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, stage, items_json, findings_json, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET stage=excluded.stage, items_json=excluded.items_json,
		 findings_json=excluded.findings_json, updated_at=CURRENT_TIMESTAMP`,
		rec.ID, string(rec.Stage), string(items), string(findings),
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("failed to save session %s: %v", rec.ID, err)
		return err
	}
	return nil
}

// Load retrieves a session record. A missing id yields (nil, nil).
func (s *Store) Load(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec Record
	var stage, itemsJSON, findingsJSON string
	err := s.db.QueryRow(
		"SELECT id, stage, items_json, findings_json, updated_at FROM sessions WHERE id = ?", id,
	).Scan(&rec.ID, &stage, &itemsJSON, &findingsJSON, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	rec.Stage = Stage(stage)
	if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(findingsJSON), &rec.Findings); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &rec, nil
}

// List returns all session ids with their stages, most recent first.
func (s *Store) List() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, stage, updated_at FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var stage string
		if err := rows.Scan(&rec.ID, &stage, &rec.UpdatedAt); err != nil {
			continue
		}
		rec.Stage = Stage(stage)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a session record.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
