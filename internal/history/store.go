// Package history persists restart actions so the dashboard can show the
// last action across runs and an audit of recent ones.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS actions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp    INTEGER NOT NULL,
	container_id TEXT    NOT NULL,
	name         TEXT    NOT NULL,
	outcome      TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions(timestamp);
`

// Action is one recorded restart dispatch.
type Action struct {
	Timestamp   time.Time
	ContainerID string
	Name        string
	Outcome     string // "" = dispatched, otherwise the dispatch error
}

// Store manages SQLite persistence for the action audit log.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the audit database at the given path with WAL mode.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	// Restrict database file permissions to owner-only.
	if err := os.Chmod(path, 0o600); err != nil {
		slog.Warn("failed to set database file permissions", "error", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one restart action.
func (s *Store) Record(ctx context.Context, a Action) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actions (timestamp, container_id, name, outcome) VALUES (?, ?, ?, ?)`,
		a.Timestamp.Unix(), a.ContainerID, a.Name, a.Outcome,
	)
	return err
}

// Recent returns up to limit actions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, container_id, name, outcome FROM actions ORDER BY timestamp DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var a Action
		var ts int64
		if err := rows.Scan(&ts, &a.ContainerID, &a.Name, &a.Outcome); err != nil {
			return nil, err
		}
		a.Timestamp = time.Unix(ts, 0)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Last returns the most recent action, or false if none is recorded.
func (s *Store) Last(ctx context.Context) (Action, bool, error) {
	var a Action
	var ts int64
	err := s.db.QueryRowContext(ctx,
		`SELECT timestamp, container_id, name, outcome FROM actions ORDER BY timestamp DESC, id DESC LIMIT 1`,
	).Scan(&ts, &a.ContainerID, &a.Name, &a.Outcome)
	if errors.Is(err, sql.ErrNoRows) {
		return Action{}, false, nil
	}
	if err != nil {
		return Action{}, false, err
	}
	a.Timestamp = time.Unix(ts, 0)
	return a, true, nil
}

// Prune deletes actions older than the retention window.
func (s *Store) Prune(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().Add(-retention).Unix()
	_, err := s.db.ExecContext(ctx, `DELETE FROM actions WHERE timestamp < ?`, cutoff)
	return err
}
