package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a single save-point in a board's history: the full document
// JSON at the moment it was taken.
type Snapshot struct {
	ID           string    `json:"id"`
	BoardID      string    `json:"boardId"`
	Label        string    `json:"label"`
	DocumentJSON string    `json:"documentJson"`
	CreatedAt    time.Time `json:"createdAt"`
}

// maxSnapshotsPerBoard bounds history growth; oldest entries are pruned.
const maxSnapshotsPerBoard = 40

// HistoryStore manages board save-point history in SQLite.
type HistoryStore struct {
	db *DB
}

func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Push records a new snapshot for a board and prunes history past the limit.
func (s *HistoryStore) Push(boardID, label, documentJSON string) (*Snapshot, error) {
	snap := &Snapshot{
		ID:           uuid.New().String(),
		BoardID:      boardID,
		Label:        label,
		DocumentJSON: documentJSON,
		CreatedAt:    time.Now(),
	}

	_, err := s.db.Conn().Exec(
		`INSERT INTO snapshots (id, board_id, label, document_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.BoardID, snap.Label, snap.DocumentJSON, snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	s.pruneIfNeeded(boardID, maxSnapshotsPerBoard)
	return snap, nil
}

// List returns a board's snapshots, newest first, without the document
// payload (summaries for a history picker).
func (s *HistoryStore) List(boardID string) ([]Snapshot, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, board_id, label, created_at
		 FROM snapshots WHERE board_id = ? ORDER BY created_at DESC`, boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.BoardID, &snap.Label, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Get returns one snapshot including its document payload.
func (s *HistoryStore) Get(id string) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.Conn().QueryRow(
		`SELECT id, board_id, label, document_json, created_at
		 FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.BoardID, &snap.Label, &snap.DocumentJSON, &snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// ClearBoard removes all history for a board.
func (s *HistoryStore) ClearBoard(boardID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM snapshots WHERE board_id = ?`, boardID)
	return err
}

// pruneIfNeeded removes oldest snapshots when count exceeds maxNodes.
func (s *HistoryStore) pruneIfNeeded(boardID string, maxNodes int) {
	var count int
	s.db.Conn().QueryRow(`SELECT COUNT(*) FROM snapshots WHERE board_id = ?`, boardID).Scan(&count)
	if count <= maxNodes {
		return
	}

	s.db.Conn().Exec(
		`DELETE FROM snapshots WHERE id IN (
			SELECT id FROM snapshots WHERE board_id = ?
			ORDER BY created_at ASC LIMIT ?
		)`, boardID, count-maxNodes,
	)
}
