package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"boardkit/internal/docfile"
	"boardkit/internal/domain"
)

// documentEntry is the name of the document inside the .boardkit container.
const documentEntry = "document.json"

// Vault reads and writes .boardkit files: ZIP containers holding
// document.json plus any embedded assets under assets/. The vault owns all
// file and archive I/O; validation and migration of the document itself
// happen in docfile.
type Vault struct {
	dir string
}

// NewVault creates a vault rooted at dir, creating the directory if needed.
func NewVault(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return &Vault{dir: dir}, nil
}

// Dir returns the vault root directory.
func (v *Vault) Dir() string {
	return v.dir
}

// BoardPath returns the file path for a board name inside the vault.
func (v *Vault) BoardPath(name string) string {
	if !strings.HasSuffix(name, ".boardkit") {
		name += ".boardkit"
	}
	return filepath.Join(v.dir, name)
}

// Save encodes the document and writes it (and any asset payloads) to path
// as a .boardkit container.
func (v *Vault) Save(path string, doc *domain.BoardkitDocument, assetData map[string][]byte) error {
	data, err := docfile.Encode(doc)
	if err != nil {
		return err
	}
	entries := make(map[string][]byte)
	for _, asset := range doc.Assets.Assets {
		if payload, ok := assetData[asset.ID]; ok {
			entries[asset.Path] = payload
		}
	}
	return v.SaveEncoded(path, data, entries)
}

// SaveEncoded writes already-encoded document bytes (and asset payloads
// keyed by container path) as a .boardkit container. Callers that share the
// document across goroutines encode it under their own lock and hand the
// snapshot here. The write goes through a temp file and rename so a crash
// mid-save never truncates an existing board.
func (v *Vault) SaveEncoded(path string, document []byte, assets map[string][]byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".boardkit-save-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	zw := zip.NewWriter(tmp)
	entry, err := zw.Create(documentEntry)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("create document entry: %w", err)
	}
	if _, err := entry.Write(document); err != nil {
		tmp.Close()
		return fmt.Errorf("write document: %w", err)
	}

	for assetPath, payload := range assets {
		w, err := zw.Create(assetPath)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("create asset entry %s: %w", assetPath, err)
		}
		if _, err := w.Write(payload); err != nil {
			tmp.Close()
			return fmt.Errorf("write asset %s: %w", assetPath, err)
		}
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finalize container: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace board file: %w", err)
	}
	return nil
}

// Load reads a .boardkit file, runs the document through validation and
// migration, and returns the typed document. Validation and migration
// failures surface unchanged so the caller can refuse the file.
func (v *Vault) Load(path string) (*domain.BoardkitDocument, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open board file: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != documentEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document entry: %w", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document entry: %w", err)
		}
		return docfile.Parse(data)
	}
	return nil, fmt.Errorf("board file %s has no %s", filepath.Base(path), documentEntry)
}

// LoadAsset reads one asset payload out of a board file.
func (v *Vault) LoadAsset(path string, asset domain.Asset) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open board file: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != asset.Path {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open asset entry: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("asset %s not found in %s", asset.ID, filepath.Base(path))
}

// ListBoards returns the .boardkit files in the vault directory.
func (v *Vault) ListBoards() ([]string, error) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("read vault dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".boardkit") {
			continue
		}
		out = append(out, filepath.Join(v.dir, e.Name()))
	}
	return out, nil
}
