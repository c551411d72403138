// Package persistence provides SQLite-based save-game storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/engine"
	"github.com/redbox-games/chancellor/internal/parliament"
)

// ErrGameNotFound is returned when loading a game id with no saved state.
var ErrGameNotFound = errors.New("game not found")

// DB wraps a SQLite connection for save-game persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		turn INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		regime TEXT NOT NULL,
		terminal INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS representatives (
		game_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		ideology REAL NOT NULL,
		marginality REAL NOT NULL,
		priority_weight REAL NOT NULL,
		loyalty REAL NOT NULL,
		months_since_rebellion INTEGER NOT NULL,
		region INTEGER NOT NULL,
		PRIMARY KEY (game_id, id)
	);

	CREATE TABLE IF NOT EXISTS turn_events (
		game_id TEXT NOT NULL,
		event_id INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		PRIMARY KEY (game_id, event_id)
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_turn ON turn_events(game_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGame writes the full state for a game (full replace of the game row
// and its representative rows).
func (db *DB) SaveGame(s *engine.State) error {
	stateJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	terminal := 0
	if s.Terminated() {
		terminal = 1
	}

	_, err = tx.Exec(`INSERT INTO games (id, created_at, saved_at, turn, seed, regime, terminal, state_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			saved_at = excluded.saved_at,
			turn = excluded.turn,
			regime = excluded.regime,
			terminal = excluded.terminal,
			state_json = excluded.state_json`,
		s.ID, now, now, s.Turn, s.Seed, s.Regime.String(), terminal, string(stateJSON),
	)
	if err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM representatives WHERE game_id = ?", s.ID); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO representatives
		(game_id, id, ideology, marginality, priority_weight, loyalty, months_since_rebellion, region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range s.Reps {
		if _, err := stmt.Exec(s.ID, r.ID, r.Ideology, r.Marginality, r.PriorityWeight,
			r.Loyalty, r.MonthsSinceRebellion, r.Region); err != nil {
			return fmt.Errorf("insert representative %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("game saved", "id", s.ID, "turn", s.Turn, "terminal", s.Terminated())
	return nil
}

// SaveEvents appends turn events for a game.
func (db *DB) SaveEvents(gameID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO turn_events (game_id, event_id, turn, category, description) VALUES (?, ?, ?, ?, ?)",
			gameID, e.ID, e.Turn, e.Category, e.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadGame restores a game's state. A partial or older save degrades to
// explicit per-field defaults: the JSON is unmarshalled over a fully
// defaulted state, so a field a later version added (service quality, the
// recency corpus) falls back to its baseline instead of bricking the save.
func (db *DB) LoadGame(id string) (*engine.State, error) {
	var stateJSON string
	err := db.conn.Get(&stateJSON, "SELECT state_json FROM games WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}

	st := defaultedState()
	if err := json.Unmarshal([]byte(stateJSON), st); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	// The representative table is the authoritative population copy.
	var reps []parliament.Representative
	err = db.conn.Select(&reps, `SELECT id, ideology, marginality, priority_weight,
		loyalty, months_since_rebellion, region
		FROM representatives WHERE game_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load representatives: %w", err)
	}
	if len(reps) == parliament.PopulationSize {
		st.Reps = reps
	}

	slog.Info("game loaded", "id", st.ID, "turn", st.Turn)
	return st, nil
}

// LatestGameID returns the most recently saved game id.
func (db *DB) LatestGameID() (string, error) {
	var id string
	err := db.conn.Get(&id, "SELECT id FROM games ORDER BY saved_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrGameNotFound
	}
	return id, err
}

// RecentEvents returns the most recent N events for a game.
func (db *DB) RecentEvents(gameID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		`SELECT event_id AS id, turn, category, description FROM turn_events
		 WHERE game_id = ? ORDER BY event_id DESC LIMIT ?`,
		gameID, limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	return value, err
}

// defaultedState carries the documented baseline values for any field an
// older save might not contain.
func defaultedState() *engine.State {
	st := &engine.State{}
	st.Econ = economy.Indicators{
		GDP:              2600,
		GrowthPct:        1.4,
		InflationPct:     2.0,
		UnemploymentPct:  4.5,
		GiltYieldPct:     3.5,
		NationalApproval: 42,
		ServiceQuality:   55,
	}
	for i := range st.Econ.RegionalApproval {
		st.Econ.RegionalApproval[i] = 42
	}
	st.NextID = 1
	return st
}
