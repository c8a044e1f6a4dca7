// Package leaderboard stores finished-game results in a local SQLite
// database. There is no online service behind it; the store is a single
// file (or :memory: for tests).
package leaderboard

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	score INTEGER NOT NULL,
	max_tile INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS scores_by_score ON scores (score DESC);
`

// Entry is one submitted result.
type Entry struct {
	Name    string
	Score   uint32
	MaxTile uint32
	Created time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the score database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Submit records a finished game.
func (s *Store) Submit(name string, score, maxTile uint32) error {
	_, err := s.db.Exec(
		"INSERT INTO scores (name, score, max_tile) VALUES (?, ?, ?)",
		name, score, maxTile)
	return err
}

// Top returns the n highest scores, best first.
func (s *Store) Top(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT name, score, max_tile, created_at FROM scores ORDER BY score DESC, created_at ASC LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.MaxTile, &e.Created); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
