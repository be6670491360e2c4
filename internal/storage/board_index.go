package storage

import (
	"fmt"
	"time"
)

// BoardInfo is one row of the vault index: a known .boardkit file and what
// we last saw inside it.
type BoardInfo struct {
	ID           string     `json:"id"`
	Path         string     `json:"path"`
	Title        string     `json:"title"`
	DocVersion   int        `json:"docVersion"`
	LastOpenedAt *time.Time `json:"lastOpenedAt"`
}

// BoardIndexStore tracks the boards known to this vault, for the recents
// list and for mapping file paths back to document ids.
type BoardIndexStore struct {
	db *DB
}

func NewBoardIndexStore(db *DB) *BoardIndexStore {
	return &BoardIndexStore{db: db}
}

// Upsert records (or refreshes) a board's index entry.
func (s *BoardIndexStore) Upsert(info *BoardInfo) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO boards (id, path, title, doc_version, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			title = excluded.title,
			doc_version = excluded.doc_version,
			updated_at = CURRENT_TIMESTAMP`,
		info.ID, info.Path, info.Title, info.DocVersion,
	)
	if err != nil {
		return fmt.Errorf("upsert board index: %w", err)
	}
	return nil
}

// TouchOpened marks a board as just opened.
func (s *BoardIndexStore) TouchOpened(id string) error {
	_, err := s.db.Conn().Exec(
		`UPDATE boards SET last_opened_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	)
	return err
}

// Get returns the index entry for a board id.
func (s *BoardIndexStore) Get(id string) (*BoardInfo, error) {
	var info BoardInfo
	err := s.db.Conn().QueryRow(
		`SELECT id, path, title, doc_version, last_opened_at FROM boards WHERE id = ?`, id,
	).Scan(&info.ID, &info.Path, &info.Title, &info.DocVersion, &info.LastOpenedAt)
	if err != nil {
		return nil, fmt.Errorf("get board %s: %w", id, err)
	}
	return &info, nil
}

// List returns all known boards, most recently opened first.
func (s *BoardIndexStore) List() ([]BoardInfo, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, path, title, doc_version, last_opened_at
		 FROM boards ORDER BY last_opened_at DESC, updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var out []BoardInfo
	for rows.Next() {
		var info BoardInfo
		if err := rows.Scan(&info.ID, &info.Path, &info.Title, &info.DocVersion, &info.LastOpenedAt); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a board from the index (the file itself is the caller's problem).
func (s *BoardIndexStore) Delete(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM boards WHERE id = ?`, id)
	return err
}
