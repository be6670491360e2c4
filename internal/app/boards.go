package app

import (
	"fmt"

	"boardkit/internal/docfile"
	"boardkit/internal/domain"
	"boardkit/internal/storage"
)

// ============================================================
// Board lifecycle
// ============================================================
//
// a.mu covers the open document's contents, not just the pointer: the
// autosave goroutine and MCP handlers share the same maps and slices, so
// every read for encoding and every mutation happens under the lock.

// NewBoard creates a fresh board, saves it into the vault under name, and
// opens it.
func (a *App) NewBoard(title, name string) (*domain.BoardkitDocument, error) {
	doc := a.board.NewDocument(title)
	path := a.vault.BoardPath(name)

	raw, err := docfile.Encode(doc)
	if err != nil {
		return nil, err
	}
	if err := a.writeBoard(path, raw); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.doc = doc
	a.docPath = path
	a.dirty = false
	a.bindings.RebindAll(doc)
	a.mu.Unlock()

	a.indexBoard(doc.Meta.ID, title, doc.Version, path, true)
	a.emitter.Emit(a.ctx, "board:opened", map[string]string{"boardId": doc.Meta.ID, "path": path})
	return doc, nil
}

// OpenBoard loads a .boardkit file, migrating it to the current version if
// needed. A validation or migration failure refuses the file and leaves the
// currently open board untouched.
func (a *App) OpenBoard(path string) (*domain.BoardkitDocument, error) {
	doc, err := a.vault.Load(path)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	prevDirty := a.dirty && a.doc != nil
	a.mu.Unlock()
	if prevDirty {
		if err := a.SaveBoard(); err != nil {
			return nil, fmt.Errorf("save current board before switch: %w", err)
		}
	}

	a.mu.Lock()
	a.doc = doc
	a.docPath = path
	a.dirty = false
	a.bus.Clear()
	a.bindings.RebindAll(doc)
	boardID, title, version := doc.Meta.ID, doc.Meta.Title, doc.Version
	a.mu.Unlock()

	a.indexBoard(boardID, title, version, path, true)
	a.emitter.Emit(a.ctx, "board:opened", map[string]string{"boardId": boardID, "path": path})
	return doc, nil
}

// SaveBoard writes the open board back to its vault file and records a
// history snapshot of the same bytes. The document is encoded under the lock
// so mutators can never interleave with the encoder; concurrent saves of the
// same path are skipped.
func (a *App) SaveBoard() error {
	a.mu.Lock()
	if a.doc == nil {
		a.mu.Unlock()
		return fmt.Errorf("no board open")
	}
	raw, err := docfile.Encode(a.doc)
	boardID, title, version, path := a.doc.Meta.ID, a.doc.Meta.Title, a.doc.Version, a.docPath
	a.mu.Unlock()
	if err != nil {
		return err
	}

	if !a.guard.TryLock(path) {
		return nil
	}
	defer a.guard.Unlock(path)

	if err := a.writeBoard(path, raw); err != nil {
		return err
	}

	// The history snapshot is the exact bytes just written to the vault.
	if _, err := a.history.Push(boardID, "save", string(raw)); err != nil {
		return fmt.Errorf("record history: %w", err)
	}

	a.mu.Lock()
	a.dirty = false
	a.mu.Unlock()

	a.indexBoard(boardID, title, version, path, false)
	a.emitter.Emit(a.ctx, "board:saved", map[string]string{"boardId": boardID, "path": path})
	return nil
}

// CloseBoard saves a dirty board, tears down its bindings, and clears the bus.
func (a *App) CloseBoard() error {
	a.mu.Lock()
	dirty := a.dirty && a.doc != nil
	a.mu.Unlock()
	if dirty {
		if err := a.SaveBoard(); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.bindings.CloseAll()
	a.bus.Clear()
	a.doc = nil
	a.docPath = ""
	a.dirty = false
	a.mu.Unlock()
	return nil
}

// DocumentJSON encodes the currently open document under the lock, for read
// surfaces that must not observe a mid-mutation document.
func (a *App) DocumentJSON() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return nil, fmt.Errorf("no board open")
	}
	return docfile.Encode(a.doc)
}

// ListBoards returns the vault index, most recently opened first.
func (a *App) ListBoards() ([]storage.BoardInfo, error) {
	return a.index.List()
}

// writeBoard saves encoded document bytes through the vault, muting the
// watcher for our own write.
func (a *App) writeBoard(path string, raw []byte) error {
	if a.watcher != nil {
		a.watcher.Mute(path)
	}
	return a.vault.SaveEncoded(path, raw, nil)
}

func (a *App) indexBoard(boardID, title string, version int, path string, opened bool) {
	info := &storage.BoardInfo{
		ID:         boardID,
		Path:       path,
		Title:      title,
		DocVersion: version,
	}
	if err := a.index.Upsert(info); err != nil {
		return
	}
	if opened {
		a.index.TouchOpened(boardID)
	}
}

// ============================================================
// History
// ============================================================

// Snapshot records a labeled save point of the open board without writing
// the vault file.
func (a *App) Snapshot(label string) (*storage.Snapshot, error) {
	a.mu.Lock()
	if a.doc == nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("no board open")
	}
	raw, err := docfile.Encode(a.doc)
	boardID := a.doc.Meta.ID
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return a.history.Push(boardID, label, string(raw))
}

// History lists the open board's snapshots, newest first.
func (a *App) History() ([]storage.Snapshot, error) {
	a.mu.Lock()
	if a.doc == nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("no board open")
	}
	boardID := a.doc.Meta.ID
	a.mu.Unlock()
	return a.history.List(boardID)
}

// RestoreSnapshot replaces the open document with a history snapshot. The
// restored state is dirty until the next save.
func (a *App) RestoreSnapshot(snapshotID string) (*domain.BoardkitDocument, error) {
	snap, err := a.history.Get(snapshotID)
	if err != nil {
		return nil, err
	}
	doc, err := docfile.Parse([]byte(snap.DocumentJSON))
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	a.mu.Lock()
	if a.doc == nil || a.doc.Meta.ID != snap.BoardID {
		a.mu.Unlock()
		return nil, fmt.Errorf("snapshot %s does not belong to the open board", snapshotID)
	}
	a.doc = doc
	a.dirty = true
	a.bus.Clear()
	a.bindings.RebindAll(doc)
	a.mu.Unlock()

	a.emitter.Emit(a.ctx, "board:restored", map[string]string{"snapshotId": snapshotID})
	return doc, nil
}
