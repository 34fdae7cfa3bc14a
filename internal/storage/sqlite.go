// Package storage provides SQLite-based persistence for recordings and level results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/neutronic/internal/games/neutronic/core"
	"github.com/vovakirdan/neutronic/internal/games/neutronic/recording"
)

// Store manages the SQLite database connection.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ recording.Store = (*Store)(nil)

// Result is the best clear of a level.
type Result struct {
	LevelID   string
	BestSteps int
	Rank      string
	Clears    int
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
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

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS recordings (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			level_name TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			steps INTEGER NOT NULL,
			segments TEXT NOT NULL,
			snapshot TEXT,
			recorded_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_recordings_level ON recordings(level_id, recorded_at DESC);

		CREATE TABLE IF NOT EXISTS results (
			level_id TEXT PRIMARY KEY,
			best_steps INTEGER NOT NULL,
			grade TEXT NOT NULL,
			clears INTEGER NOT NULL DEFAULT 1,
			updated_at INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRecording inserts or replaces a recording.
func (s *Store) SaveRecording(entry recording.Entry) error {
	if entry.LevelID == "" {
		return errors.New("storage: recording has no level id")
	}
	segments, err := json.Marshal(entry.Segments)
	if err != nil {
		return fmt.Errorf("storage: cannot encode segments: %w", err)
	}
	var snapshot sql.NullString
	if entry.LevelSnapshot != nil {
		data, err := json.Marshal(entry.LevelSnapshot)
		if err != nil {
			return fmt.Errorf("storage: cannot encode level snapshot: %w", err)
		}
		snapshot = sql.NullString{String: string(data), Valid: true}
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO recordings
		 (id, level_id, level_name, author, steps, segments, snapshot, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.LevelID, entry.LevelName, entry.Author,
		entry.Steps, string(segments), snapshot, recordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save recording: %w", err)
	}
	return nil
}

const recordingColumns = `id, level_id, level_name, author, steps, segments, snapshot, recorded_at`

// Recordings returns the recordings of a level, newest first.
func (s *Store) Recordings(levelID string) ([]recording.Entry, error) {
	rows, err := s.db.Query(
		`SELECT `+recordingColumns+`
		 FROM recordings
		 WHERE level_id = ?
		 ORDER BY recorded_at DESC, rowid DESC`,
		levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recordings: %w", err)
	}
	return scanRecordings(rows)
}

// AllRecordings returns every recording, newest first.
func (s *Store) AllRecordings() ([]recording.Entry, error) {
	rows, err := s.db.Query(
		`SELECT ` + recordingColumns + `
		 FROM recordings
		 ORDER BY recorded_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recordings: %w", err)
	}
	return scanRecordings(rows)
}

// RecordingByID returns a single recording.
func (s *Store) RecordingByID(id string) (recording.Entry, error) {
	rows, err := s.db.Query(
		`SELECT `+recordingColumns+` FROM recordings WHERE id = ?`,
		id,
	)
	if err != nil {
		return recording.Entry{}, fmt.Errorf("storage: cannot query recording: %w", err)
	}
	entries, err := scanRecordings(rows)
	if err != nil {
		return recording.Entry{}, err
	}
	if len(entries) == 0 {
		return recording.Entry{}, fmt.Errorf("storage: recording %s: %w", id, recording.ErrNotFound)
	}
	return entries[0], nil
}

// DeleteRecording removes one recording of a level.
func (s *Store) DeleteRecording(levelID, id string) error {
	res, err := s.db.Exec(
		"DELETE FROM recordings WHERE level_id = ? AND id = ?",
		levelID, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot delete recording: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage: recording %s: %w", id, recording.ErrNotFound)
	}
	return nil
}

func scanRecordings(rows *sql.Rows) ([]recording.Entry, error) {
	defer rows.Close()

	var entries []recording.Entry
	for rows.Next() {
		var (
			e          recording.Entry
			segments   string
			snapshot   sql.NullString
			recordedAt int64
		)
		if err := rows.Scan(&e.ID, &e.LevelID, &e.LevelName, &e.Author,
			&e.Steps, &segments, &snapshot, &recordedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(segments), &e.Segments); err != nil {
			return nil, fmt.Errorf("storage: recording %s: cannot decode segments: %w", e.ID, err)
		}
		if snapshot.Valid {
			var def core.LevelDefinition
			if err := json.Unmarshal([]byte(snapshot.String), &def); err != nil {
				return nil, fmt.Errorf("storage: recording %s: cannot decode snapshot: %w", e.ID, err)
			}
			e.LevelSnapshot = &def
		}
		e.RecordedAt = time.Unix(0, recordedAt).UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SaveResult records a clear of a level, keeping the lowest step count.
func (s *Store) SaveResult(levelID string, steps int, rank core.Rank) error {
	_, err := s.db.Exec(
		`INSERT INTO results (level_id, best_steps, grade, clears, updated_at)
		 VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT(level_id) DO UPDATE SET
			grade = CASE WHEN excluded.best_steps < results.best_steps THEN excluded.grade ELSE results.grade END,
			best_steps = MIN(results.best_steps, excluded.best_steps),
			clears = results.clears + 1,
			updated_at = excluded.updated_at`,
		levelID, steps, rank.String(), s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save result: %w", err)
	}
	return nil
}

// BestResult returns the best clear of a level. The bool is false if the level was never cleared.
func (s *Store) BestResult(levelID string) (Result, bool, error) {
	var (
		r         Result
		updatedAt int64
	)
	err := s.db.QueryRow(
		`SELECT level_id, best_steps, grade, clears, updated_at FROM results WHERE level_id = ?`,
		levelID,
	).Scan(&r.LevelID, &r.BestSteps, &r.Rank, &r.Clears, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("storage: cannot query result: %w", err)
	}
	r.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return r, true, nil
}

// Results returns the best clear of every level, keyed by level id.
func (s *Store) Results() (map[string]Result, error) {
	rows, err := s.db.Query(`SELECT level_id, best_steps, grade, clears, updated_at FROM results`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]Result)
	for rows.Next() {
		var (
			r         Result
			updatedAt int64
		)
		if err := rows.Scan(&r.LevelID, &r.BestSteps, &r.Rank, &r.Clears, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan result row: %w", err)
		}
		r.UpdatedAt = time.Unix(0, updatedAt).UTC()
		results[r.LevelID] = r
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// ClearResults deletes the stored result of a level.
func (s *Store) ClearResults(levelID string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}
