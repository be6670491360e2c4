package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"boardkit/internal/docfile"
	"boardkit/internal/domain"
	"boardkit/internal/storage"
)

func newTestVault(t *testing.T) *storage.Vault {
	t.Helper()
	v, err := storage.NewVault(t.TempDir())
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	return v
}

func testDocument(t *testing.T) *domain.BoardkitDocument {
	t.Helper()
	doc, err := docfile.Parse([]byte(`{
		"version": 4,
		"meta": {"id": "doc-1", "title": "Vault Test"},
		"board": {
			"widgets": [{"id": "w1", "moduleId": "todo", "x": 0, "y": 0}],
			"elements": []
		},
		"modules": {"w1": {"items": []}}
	}`))
	if err != nil {
		t.Fatalf("fixture document: %v", err)
	}
	return doc
}

// ─────────────────────────────────────────────────────────────
// Vault tests
// ─────────────────────────────────────────────────────────────

func TestVault_BoardPath(t *testing.T) {
	v := newTestVault(t)

	p := v.BoardPath("weekly")
	if !strings.HasSuffix(p, ".boardkit") {
		t.Fatalf("expected .boardkit suffix, got %s", p)
	}
	if v.BoardPath("weekly.boardkit") != p {
		t.Fatal("an already-suffixed name must not be suffixed twice")
	}
	if filepath.Dir(p) != v.Dir() {
		t.Fatalf("board path must live inside the vault, got %s", p)
	}
}

func TestVault_SaveLoadRoundTrip(t *testing.T) {
	v := newTestVault(t)
	doc := testDocument(t)
	path := v.BoardPath("roundtrip")

	if err := v.Save(path, doc, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := v.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Meta.ID != "doc-1" || loaded.Meta.Title != "Vault Test" {
		t.Fatalf("meta drifted: %+v", loaded.Meta)
	}
	if len(loaded.Board.Widgets) != 1 || loaded.Board.Widgets[0].ID != "w1" {
		t.Fatalf("widgets drifted: %+v", loaded.Board.Widgets)
	}
	if _, ok := loaded.Modules["w1"]; !ok {
		t.Fatal("module state lost in the container")
	}
}

func TestVault_SaveOverwritesAtomically(t *testing.T) {
	v := newTestVault(t)
	doc := testDocument(t)
	path := v.BoardPath("atomic")

	if err := v.Save(path, doc, nil); err != nil {
		t.Fatalf("first save: %v", err)
	}
	doc.Meta.Title = "Renamed"
	if err := v.Save(path, doc, nil); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := v.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Meta.Title != "Renamed" {
		t.Fatalf("expected overwritten title, got %q", loaded.Meta.Title)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(v.Dir())
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".boardkit-save-") {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}

func TestVault_AssetRoundTrip(t *testing.T) {
	v := newTestVault(t)
	doc := testDocument(t)
	asset := domain.Asset{
		ID: "asset-1", Name: "logo.png", MimeType: "image/png", Path: "assets/asset-1.png", Size: 4,
	}
	doc.Assets.Assets = map[string]domain.Asset{asset.ID: asset}
	payload := []byte{0x89, 'P', 'N', 'G'}
	path := v.BoardPath("with-asset")

	if err := v.Save(path, doc, map[string][]byte{asset.ID: payload}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := v.LoadAsset(path, asset)
	if err != nil {
		t.Fatalf("load asset: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("asset payload drifted: %v", got)
	}

	if _, err := v.LoadAsset(path, domain.Asset{ID: "missing", Path: "assets/missing"}); err == nil {
		t.Fatal("loading a missing asset must error")
	}
}

func TestVault_ListBoards(t *testing.T) {
	v := newTestVault(t)
	doc := testDocument(t)

	v.Save(v.BoardPath("one"), doc, nil)
	v.Save(v.BoardPath("two"), doc, nil)
	os.WriteFile(filepath.Join(v.Dir(), "notes.txt"), []byte("x"), 0644)

	boards, err := v.ListBoards()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 board files, got %v", boards)
	}
	for _, p := range boards {
		if !strings.HasSuffix(p, ".boardkit") {
			t.Fatalf("non-board file listed: %s", p)
		}
	}
}

func TestVault_LoadRejectsNonContainer(t *testing.T) {
	v := newTestVault(t)
	path := v.BoardPath("broken")
	os.WriteFile(path, []byte("not a zip"), 0644)

	if _, err := v.Load(path); err == nil {
		t.Fatal("expected error for a non-zip board file")
	}
}
