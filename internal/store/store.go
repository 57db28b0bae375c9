// Package store persists chat histories and the user profile in a local
// SQLite database. Histories are keyed by persona id; the profile is a
// single row. Entries serialize as JSON with RFC 3339 timestamps.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mentorlab/internal/chat"
	"mentorlab/internal/logging"
	"mentorlab/internal/profile"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements chat.Repository on top of SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ chat.Repository = (*SQLiteStore)(nil)

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection avoids SQLITE_BUSY on concurrent turn + profile
	// writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("store opened: %s", path)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS histories (
		persona_id TEXT PRIMARY KEY,
		entries    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS user_profile (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadHistory returns the persisted transcript for a persona, or nil when
// none exists.
func (s *SQLiteStore) LoadHistory(personaID string) ([]chat.Message, error) {
	var raw string
	err := s.db.QueryRow(
		"SELECT entries FROM histories WHERE persona_id = ?", personaID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", personaID, err)
	}

	var entries []chat.Message
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("corrupt history for %s: %w", personaID, err)
	}
	logging.StoreDebug("loaded %d entries for %s", len(entries), personaID)
	return entries, nil
}

// SaveHistory replaces the persisted transcript for a persona.
func (s *SQLiteStore) SaveHistory(personaID string, entries []chat.Message) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to serialize history for %s: %w", personaID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO histories (persona_id, entries, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(persona_id) DO UPDATE SET entries = excluded.entries, updated_at = excluded.updated_at`,
		personaID, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save history for %s: %w", personaID, err)
	}
	return nil
}

// DeleteHistory removes the persisted transcript for a persona. Deleting a
// persona with no history is not an error.
func (s *SQLiteStore) DeleteHistory(personaID string) error {
	if _, err := s.db.Exec("DELETE FROM histories WHERE persona_id = ?", personaID); err != nil {
		return fmt.Errorf("failed to delete history for %s: %w", personaID, err)
	}
	logging.Store("history cleared: %s", personaID)
	return nil
}

// LoadProfile returns the stored profile, or nil when onboarding has not
// run yet.
func (s *SQLiteStore) LoadProfile() (*profile.UserProfile, error) {
	var raw string
	err := s.db.QueryRow("SELECT data FROM user_profile WHERE id = 1").Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var p profile.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("corrupt profile: %w", err)
	}
	return &p, nil
}

// SaveProfile upserts the single profile row.
func (s *SQLiteStore) SaveProfile(p *profile.UserProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO user_profile (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
