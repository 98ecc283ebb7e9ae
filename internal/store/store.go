// Package store persists dialogue availability state (last-played times,
// session flags, play counts) in SQLite so replay gating survives process
// restarts.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"Hearthvale/internal/dialogue"
)

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// Open initializes the SQLite database at dbPath, enabling WAL mode and
// creating the schema if needed.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS dialogue_plays (
		player_id TEXT NOT NULL,
		dialogue_id TEXT NOT NULL,
		last_played REAL NOT NULL,
		played_this_session INTEGER NOT NULL DEFAULT 0,
		play_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (player_id, dialogue_id)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// SaveGate writes every record in one player's gate, replacing that player's
// existing rows. Rows are keyed per player so concurrent sessions never
// overwrite each other's history.
func (s *Store) SaveGate(playerID string, gate *dialogue.AvailabilityGate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO dialogue_plays (player_id, dialogue_id, last_played, played_this_session, play_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id, dialogue_id) DO UPDATE SET
			last_played = excluded.last_played,
			played_this_session = excluded.played_this_session,
			play_count = excluded.play_count
	`)
	if err != nil {
		return fmt.Errorf("prepare save: %w", err)
	}
	defer stmt.Close()

	for id, rec := range gate.Records() {
		session := 0
		if rec.PlayedThisSession {
			session = 1
		}
		if _, err := stmt.Exec(playerID, string(id), rec.LastPlayed, session, rec.PlayCount); err != nil {
			return fmt.Errorf("save record %s/%s: %w", playerID, id, err)
		}
	}
	return tx.Commit()
}

// LoadGate reads one player's persisted records into a fresh gate. Loading a
// player with no history returns an empty gate, not an error.
func (s *Store) LoadGate(playerID string) (*dialogue.AvailabilityGate, error) {
	rows, err := s.db.Query(`SELECT dialogue_id, last_played, played_this_session, play_count FROM dialogue_plays WHERE player_id = ?`, playerID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	gate := dialogue.NewAvailabilityGate()
	for rows.Next() {
		var id string
		var rec dialogue.PlayRecord
		var session int
		if err := rows.Scan(&id, &rec.LastPlayed, &session, &rec.PlayCount); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.PlayedThisSession = session != 0
		gate.SetRecord(dialogue.DialogueID(id), rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return gate, nil
}

// DeleteRecord removes one dialogue's play history for one player.
func (s *Store) DeleteRecord(playerID string, id dialogue.DialogueID) error {
	_, err := s.db.Exec(`DELETE FROM dialogue_plays WHERE player_id = ? AND dialogue_id = ?`, playerID, string(id))
	if err != nil {
		return fmt.Errorf("delete record %s/%s: %w", playerID, id, err)
	}
	return nil
}
