// Package storage keeps play progress per levelpack in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/milk9111/tiltmaze/maze"
	"github.com/milk9111/tiltmaze/settings"
)

// Store records level outcomes. Every Store is one play run with its own id.
type Store struct {
	db  *sql.DB
	run uuid.UUID
}

// Progress summarises every run recorded for a pack.
type Progress struct {
	Pack       string
	Attempts   int
	Wins       int
	Fails      int
	Saves      int
	HighestWon int // 0-based level index, -1 when nothing was won
	Runs       int
}

type Run struct {
	ID        string
	Outcomes  int
	Wins      int
	StartedAt time.Time
}

// PackKey is the textual key of a pack digest.
func PackKey(digest uint64) string {
	return fmt.Sprintf("%016x", digest)
}

// Open creates or opens the database at path and starts a new run.
func Open(dbPath string) (*Store, error) {
	dbPath, err := settings.ExpandPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, run: uuid.New()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			pack TEXT NOT NULL,
			level INTEGER NOT NULL,
			state TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_outcomes_pack ON outcomes(pack);
		CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) RunID() string {
	return s.run.String()
}

// RecordOutcome stores a non-normal result of a level.
func (s *Store) RecordOutcome(digest uint64, level int, state maze.GameState) error {
	if state == maze.StateNormal {
		return nil
	}
	_, err := s.db.Exec(
		"INSERT INTO outcomes (run_id, pack, level, state) VALUES (?, ?, ?, ?)",
		s.run.String(), PackKey(digest), level, state.String(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record outcome: %w", err)
	}
	return nil
}

func (s *Store) Progress(digest uint64) (Progress, error) {
	p := Progress{Pack: PackKey(digest), HighestWon: -1}

	var highest sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(state = ?), 0),
		        COALESCE(SUM(state = ?), 0),
		        COALESCE(SUM(state = ?), 0),
		        MAX(CASE WHEN state = ? THEN level END),
		        COUNT(DISTINCT run_id)
		 FROM outcomes
		 WHERE pack = ?`,
		maze.StateWin.String(), maze.StateFailed.String(), maze.StateSaved.String(),
		maze.StateWin.String(), p.Pack,
	).Scan(&p.Attempts, &p.Wins, &p.Fails, &p.Saves, &highest, &p.Runs)
	if err != nil {
		return Progress{}, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	if highest.Valid {
		p.HighestWon = int(highest.Int64)
	}
	return p, nil
}

// Runs lists the most recent runs for a pack, newest first.
func (s *Store) Runs(digest uint64, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT run_id, COUNT(*), COALESCE(SUM(state = ?), 0), MIN(created_at), MIN(id) AS first
		 FROM outcomes
		 WHERE pack = ?
		 GROUP BY run_id
		 ORDER BY first DESC
		 LIMIT ?`,
		maze.StateWin.String(), PackKey(digest), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt any
		var first int64
		if err := rows.Scan(&r.ID, &r.Outcomes, &r.Wins, &startedAt, &first); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		switch v := startedAt.(type) {
		case time.Time:
			r.StartedAt = v
		case string:
			if parsed, err := time.Parse(time.DateTime, v); err == nil {
				r.StartedAt = parsed
			}
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}
