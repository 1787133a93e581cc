// Package store persists session enabled-set snapshots in SQLite so that
// named sessions survive process restarts.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/tokenring-ai/codebase/internal/logging"
)

// SnapshotStore saves and restores enabled-set snapshots keyed by session ID.
type SnapshotStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewSnapshotStore initializes the SQLite database at the given path.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SnapshotStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("Snapshot store opened: %s", path)
	return s, nil
}

// initialize creates the required tables.
func (s *SnapshotStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_snapshots (
		session_id TEXT PRIMARY KEY,
		names_json TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores the resolved name list for a session. Last write wins.
func (s *SnapshotStore) SaveSnapshot(sessionID string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	logging.StoreDebug("Saving snapshot: session=%s names=%d", sessionID, len(names))

	_, err = s.db.Exec(
		`INSERT INTO session_snapshots (session_id, names_json, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(session_id) DO UPDATE SET
		   names_json = excluded.names_json,
		   updated_at = CURRENT_TIMESTAMP`,
		sessionID, string(data),
	)
	if err != nil {
		logging.StoreError("Failed to save snapshot for %s: %v", sessionID, err)
		return err
	}
	return nil
}

// LoadSnapshot returns the saved name list for a session, or ok=false when
// no snapshot exists.
func (s *SnapshotStore) LoadSnapshot(sessionID string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRow(
		"SELECT names_json FROM session_snapshots WHERE session_id = ?",
		sessionID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		logging.StoreError("Failed to load snapshot for %s: %v", sessionID, err)
		return nil, false, err
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	logging.StoreDebug("Loaded snapshot: session=%s names=%d", sessionID, len(names))
	return names, true, nil
}

// DeleteSnapshot removes a session's snapshot. Deleting a missing snapshot
// is a no-op.
func (s *SnapshotStore) DeleteSnapshot(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM session_snapshots WHERE session_id = ?", sessionID)
	if err != nil {
		logging.StoreError("Failed to delete snapshot for %s: %v", sessionID, err)
	}
	return err
}

// ListSnapshots returns the stored session IDs, newest first.
func (s *SnapshotStore) ListSnapshots() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT session_id FROM session_snapshots ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
