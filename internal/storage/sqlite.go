// Package storage provides SQLite-based persistence for companion sessions
// and the log of finished rounds.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/rummi-companion/internal/scoring"
)

// DefaultKey is the snapshot key of the local session.
const DefaultKey = "local"

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RoundPlayer is one player's line in a logged round.
type RoundPlayer struct {
	PlayerID  string
	Name      string
	Penalty   int
	Delta     int
	Total     int
	Breakdown string
	IsWinner  bool
}

// RoundRecord is a finalized round.
type RoundRecord struct {
	ID           int64
	SessionKey   string
	GameID       string
	RoundNo      int
	WinnerID     string
	WinnerName   string
	TotalPenalty int
	Players      []RoundPlayer
	CreatedAt    time.Time
}

// PlayerStanding aggregates a player's logged rounds.
type PlayerStanding struct {
	Name       string
	Rounds     int
	Wins       int
	Net        int
	LastPlayed time.Time
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
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_key TEXT NOT NULL,
			game_id TEXT NOT NULL,
			round_no INTEGER NOT NULL,
			winner_id TEXT NOT NULL,
			winner_name TEXT NOT NULL,
			total_penalty INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_session ON rounds(session_key);
		CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game_id);

		CREATE TABLE IF NOT EXISTS round_results (
			round_id INTEGER NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			penalty INTEGER NOT NULL DEFAULT 0,
			delta INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0,
			breakdown TEXT NOT NULL DEFAULT '',
			is_winner INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (round_id, player_id)
		);
		CREATE INDEX IF NOT EXISTS idx_round_results_name ON round_results(player_name);
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

// SaveSnapshot stores the encoded session under key, replacing any
// previous value.
func (s *Store) SaveSnapshot(key string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored session for key.
// Returns nil if nothing was stored.
func (s *Store) LoadSnapshot(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load snapshot: %w", err)
	}
	return data, nil
}

// DeleteSnapshot removes the stored session for key.
func (s *Store) DeleteSnapshot(key string) error {
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	return nil
}

// SnapshotKeys lists stored session keys, most recently updated first.
func (s *Store) SnapshotKeys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM snapshots ORDER BY updated_at DESC, key")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return keys, nil
}

// SaveRound appends a finalized round to the log.
// Returns the ID of the inserted round.
func (s *Store) SaveRound(rec RoundRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO rounds (session_key, game_id, round_no, winner_id, winner_name, total_penalty)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionKey, rec.GameID, rec.RoundNo, rec.WinnerID, rec.WinnerName, rec.TotalPenalty,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save round: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, p := range rec.Players {
		_, err := tx.Exec(
			`INSERT INTO round_results (round_id, player_id, player_name, penalty, delta, total, breakdown, is_winner)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.PlayerID, p.Name, p.Penalty, p.Delta, p.Total, p.Breakdown, p.IsWinner,
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save round result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit round: %w", err)
	}
	return id, nil
}

// SaveOutcome logs a finalized round for a session.
func (s *Store) SaveOutcome(sessionKey, gameID string, roundNo int, o scoring.Outcome, breakdowns map[string]string) (int64, error) {
	rec := RoundRecord{
		SessionKey:   sessionKey,
		GameID:       gameID,
		RoundNo:      roundNo,
		WinnerID:     o.WinnerID,
		WinnerName:   o.WinnerName,
		TotalPenalty: o.TotalPenalty,
	}
	for _, d := range o.Deltas {
		rec.Players = append(rec.Players, RoundPlayer{
			PlayerID:  d.PlayerID,
			Name:      d.Name,
			Penalty:   d.Penalty,
			Delta:     d.Delta,
			Total:     d.Total,
			Breakdown: breakdowns[d.PlayerID],
			IsWinner:  d.IsWinner,
		})
	}
	return s.SaveRound(rec)
}

// RoundSessions lists session keys that have logged rounds, most recently
// played first.
func (s *Store) RoundSessions() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT session_key FROM rounds GROUP BY session_key ORDER BY MAX(id) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return keys, nil
}

// RecentRounds returns the latest rounds, newest first. An empty
// sessionKey returns rounds from every session.
func (s *Store) RecentRounds(sessionKey string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_key, game_id, round_no, winner_id, winner_name, total_penalty, created_at
		 FROM rounds
		 WHERE ? = '' OR session_key = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sessionKey, sessionKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}

	var records []RoundRecord
	for rows.Next() {
		var r RoundRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SessionKey, &r.GameID, &r.RoundNo,
			&r.WinnerID, &r.WinnerName, &r.TotalPenalty, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	for i := range records {
		players, err := s.roundPlayers(records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Players = players
	}
	return records, nil
}

func (s *Store) roundPlayers(roundID int64) ([]RoundPlayer, error) {
	rows, err := s.db.Query(
		`SELECT player_id, player_name, penalty, delta, total, breakdown, is_winner
		 FROM round_results
		 WHERE round_id = ?
		 ORDER BY total DESC, rowid`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query round results: %w", err)
	}
	defer rows.Close()

	var players []RoundPlayer
	for rows.Next() {
		var p RoundPlayer
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.Penalty, &p.Delta, &p.Total, &p.Breakdown, &p.IsWinner); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return players, nil
}

// PlayerStandings aggregates the round log by player name, best net first.
// An empty sessionKey aggregates every session.
func (s *Store) PlayerStandings(sessionKey string) ([]PlayerStanding, error) {
	rows, err := s.db.Query(
		`SELECT rr.player_name, COUNT(*), COALESCE(SUM(rr.is_winner), 0),
		        COALESCE(SUM(rr.delta), 0), MAX(r.created_at)
		 FROM round_results rr
		 JOIN rounds r ON r.id = rr.round_id
		 WHERE ? = '' OR r.session_key = ?
		 GROUP BY rr.player_name
		 ORDER BY SUM(rr.delta) DESC, rr.player_name`,
		sessionKey, sessionKey,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query standings: %w", err)
	}
	defer rows.Close()

	var standings []PlayerStanding
	for rows.Next() {
		var st PlayerStanding
		var lastPlayed any
		if err := rows.Scan(&st.Name, &st.Rounds, &st.Wins, &st.Net, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		standings = append(standings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return standings, nil
}

// ClearRounds deletes the round log for a session.
func (s *Store) ClearRounds(sessionKey string) error {
	_, err := s.db.Exec(
		"DELETE FROM round_results WHERE round_id IN (SELECT id FROM rounds WHERE session_key = ?)",
		sessionKey,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM rounds WHERE session_key = ?", sessionKey); err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
