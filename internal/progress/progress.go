// Package progress persists which patterns a learner has worked through,
// plus a session row per scan run. The detection core never imports this
// package; a Store is opened by the CLI and passed to whoever needs it.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is the completion/session database for a workspace.
type Store struct {
	db *sql.DB
}

// Session records one scan run.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Scanned   int       `json:"scanned"` // files scanned
	Matched   int       `json:"matched"` // distinct rules that fired
}

// Open opens or creates the progress database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS completed (
    pattern_id TEXT PRIMARY KEY,
    completed_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    scanned INTEGER NOT NULL DEFAULT 0,
    matched INTEGER NOT NULL DEFAULT 0
);
`
	if _, err := s.db.ExecContext(context.Background(), schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// MarkCompleted records a pattern as completed. Marking an already
// completed pattern is a no-op, not an error.
func (s *Store) MarkCompleted(patternID string) error {
	query := `INSERT OR IGNORE INTO completed (pattern_id, completed_at) VALUES (?, ?)`
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(context.Background(), query, patternID, now); err != nil {
		return fmt.Errorf("mark completed %s: %w", patternID, err)
	}
	return nil
}

// Completed returns the set of completed pattern ids.
func (s *Store) Completed() (map[string]bool, error) {
	rows, err := s.db.QueryContext(context.Background(), `SELECT pattern_id FROM completed`)
	if err != nil {
		return nil, fmt.Errorf("query completed: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completed row: %w", err)
		}
		done[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed: %w", err)
	}
	return done, nil
}

// IsCompleted reports whether one pattern is completed.
func (s *Store) IsCompleted(patternID string) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM completed WHERE pattern_id = ?`
	if err := s.db.QueryRowContext(context.Background(), query, patternID).Scan(&n); err != nil {
		return false, fmt.Errorf("check completed %s: %w", patternID, err)
	}
	return n > 0, nil
}

// Reset clears the completed set.
func (s *Store) Reset() error {
	if _, err := s.db.ExecContext(context.Background(), `DELETE FROM completed`); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

// RecordSession stores one scan run and returns its generated id.
func (s *Store) RecordSession(startedAt time.Time, scanned, matched int) (string, error) {
	id := "ses_" + uuid.New().String()[:8]
	query := `INSERT INTO sessions (id, started_at, scanned, matched) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(context.Background(), query,
		id, startedAt.UTC().Format(time.RFC3339), scanned, matched)
	if err != nil {
		return "", fmt.Errorf("record session: %w", err)
	}
	return id, nil
}

// Sessions returns recorded scan runs, most recent first, up to limit
// (limit <= 0 means all).
func (s *Store) Sessions(limit int) ([]Session, error) {
	query := `SELECT id, started_at, scanned, matched FROM sessions ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var ses Session
		var started string
		if err := rows.Scan(&ses.ID, &started, &ses.Scanned, &ses.Matched); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, started)
		if err != nil {
			return nil, fmt.Errorf("parse session time: %w", err)
		}
		ses.StartedAt = t
		sessions = append(sessions, ses)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
