// Package progress records solved levels in a local sqlite database.
package progress

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"beamgrid/internal/ctxlog"
)

//go:embed schema.sql
var schemaSQL string

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("progress store closed")

// Record is one solve of one level.
type Record struct {
	LevelID   string
	SessionID string
	Steps     int
	// Pieces is the number of player-placed components in the solution.
	Pieces   int
	SolvedAt time.Time
}

// Summary aggregates every solve of a level.
type Summary struct {
	LevelID    string
	Solves     int
	BestPieces int
	FirstAt    time.Time
}

// Store wraps the progress database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	logger := ctxlog.FromContext(ctx)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open progress db %s: %w", path, err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply progress schema: %w", err)
	}

	logger.Debug("progress store ready", "path", path)
	return &Store{db: db}, nil
}

// MarkSolved stores rec. Recording the same session and level twice keeps
// the first solve.
func (s *Store) MarkSolved(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	if rec.SolvedAt.IsZero() {
		rec.SolvedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solves (level_id, session_id, steps, pieces, solved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, level_id) DO NOTHING
	`, rec.LevelID, rec.SessionID, rec.Steps, rec.Pieces, rec.SolvedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("record solve of %s: %w", rec.LevelID, err)
	}
	ctxlog.FromContext(ctx).Info("solve recorded", "level", rec.LevelID, "session", rec.SessionID, "pieces", rec.Pieces)
	return nil
}

// Solved returns one summary per solved level, ordered by level id.
func (s *Store) Solved(ctx context.Context) ([]Summary, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT level_id, COUNT(*), MIN(pieces), MIN(solved_at)
		FROM solves
		GROUP BY level_id
		ORDER BY level_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var first int64
		if err := rows.Scan(&sum.LevelID, &sum.Solves, &sum.BestPieces, &first); err != nil {
			return nil, fmt.Errorf("scan solve summary: %w", err)
		}
		sum.FirstAt = time.Unix(0, first)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// IsSolved reports whether levelID has been solved at least once.
func (s *Store) IsSolved(ctx context.Context, levelID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, ErrClosed
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solves WHERE level_id = ?`, levelID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query %s: %w", levelID, err)
	}
	return n > 0, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}
