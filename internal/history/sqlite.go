package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteDriver = "sqlite"

// SQLite stores the primary history in a SQLite database.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS calculations (
			position INTEGER PRIMARY KEY,
			input TEXT NOT NULL,
			result REAL NOT NULL,
			timestamp TEXT NOT NULL,
			steps TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) ([]Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT input, result, timestamp, steps FROM calculations ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var (
			g       Group
			ts, raw string
		)
		if err := rows.Scan(&g.Input, &g.Result, &ts, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if g.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("%w: invalid timestamp %q", ErrCorrupt, ts)
		}
		g.Steps = []Step{}
		if err := json.Unmarshal([]byte(raw), &g.Steps); err != nil || g.Steps == nil {
			g.Steps = []Step{}
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Save replaces the stored history inside a single transaction.
func (s *SQLite) Save(ctx context.Context, groups []Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM calculations"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO calculations (position, input, result, timestamp, steps) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, g := range groups {
		steps := g.Steps
		if steps == nil {
			steps = []Step{}
		}
		raw, err := json.Marshal(steps)
		if err != nil {
			return fmt.Errorf("encoding steps for %q: %w", g.Input, err)
		}
		if _, err := stmt.ExecContext(ctx, i+1, g.Input, g.Result, g.Timestamp.Format(time.RFC3339Nano), string(raw)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
