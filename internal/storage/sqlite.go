// Package storage provides SQLite-based persistence for match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for match persistence.
type Store struct {
	db *sql.DB
}

// MatchRecord represents one finished duel.
type MatchRecord struct {
	ID           int64
	Mode         string // "host", "join", or "serve"
	LocalSide    string // "left" or "right"
	Opponent     string // peer address or session name, best effort
	ScoreLeft    int
	ScoreRight   int
	Winner       string // "left" or "right"; empty if abandoned
	Ticks        uint32 // simulation length
	DurationSecs int    // wall-clock length
	CreatedAt    time.Time
}

// Won reports whether the local player took the match.
func (r MatchRecord) Won() bool {
	return r.Winner != "" && r.Winner == r.LocalSide
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

	// Create parent directories
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

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			local_side TEXT NOT NULL,
			opponent TEXT NOT NULL DEFAULT '',
			score_left INTEGER NOT NULL DEFAULT 0,
			score_right INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_matches_mode ON matches(mode);
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

// SaveMatch records a finished duel. Returns the ID of the inserted record.
func (s *Store) SaveMatch(r MatchRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO matches
		 (mode, local_side, opponent, score_left, score_right, winner, ticks, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Mode, r.LocalSide, r.Opponent, r.ScoreLeft, r.ScoreRight, r.Winner, r.Ticks, r.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentMatches retrieves the most recently finished duels, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, mode, local_side, opponent, score_left, score_right, winner, ticks, duration_secs, created_at
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var r MatchRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Mode, &r.LocalSide, &r.Opponent,
			&r.ScoreLeft, &r.ScoreRight, &r.Winner, &r.Ticks, &r.DurationSecs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseCreatedAt(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Stats contains aggregated duel statistics for the local player.
type Stats struct {
	Played     int
	Won        int
	LastPlayed time.Time
}

// LocalStats aggregates results across all recorded matches.
func (s *Store) LocalStats() (Stats, error) {
	var stats Stats

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN winner != '' AND winner = local_side THEN 1 ELSE 0 END), 0)
		 FROM matches`,
	).Scan(&stats.Played, &stats.Won)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM matches ORDER BY created_at DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return stats, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseCreatedAt(lastPlayed)
	}

	return stats, nil
}

// ClearHistory deletes all recorded matches.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

// parseCreatedAt handles both time.Time and string representations, which
// vary with how the driver returns DATETIME columns.
func parseCreatedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
