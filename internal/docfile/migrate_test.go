package docfile_test

import (
	"errors"
	"fmt"
	"testing"

	"boardkit/internal/docfile"
	"boardkit/internal/domain"
)

// v0 board literal: predates background, canvas settings, data sharing, and
// the asset registry.
const v0Board = `{
	"meta": {"id": "doc-1", "title": "Old Board"},
	"board": {
		"widgets": [{"id": "w1", "moduleId": "todo", "x": 10, "y": 20}],
		"elements": []
	},
	"modules": {"w1": {"items": []}}
}`

// ─────────────────────────────────────────────────────────────
// MigrateDocument
// ─────────────────────────────────────────────────────────────

func TestMigrate_V0ToCurrentWithDefaults(t *testing.T) {
	doc, err := docfile.MigrateDocument(parseJSON(t, v0Board))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if v := docfile.DocumentVersion(doc); v != domain.CurrentDocumentVersion {
		t.Fatalf("expected version %d, got %d", domain.CurrentDocumentVersion, v)
	}

	board := doc["board"].(map[string]any)
	bg, ok := board["background"].(map[string]any)
	if !ok || bg["color"] != "#1a1a1f" || bg["pattern"] != "dots" {
		t.Fatalf("expected default background, got %v", board["background"])
	}

	cs, ok := board["canvasSettings"].(map[string]any)
	if !ok || cs["gridSize"] != float64(20) || cs["darkCanvas"] != true {
		t.Fatalf("expected default canvas settings, got %v", board["canvasSettings"])
	}

	sharing, ok := doc["dataSharing"].(map[string]any)
	if !ok {
		t.Fatal("expected dataSharing section")
	}
	if perms, ok := sharing["permissions"].([]any); !ok || len(perms) != 0 {
		t.Fatalf("expected empty permissions, got %v", sharing["permissions"])
	}
	if links, ok := sharing["links"].([]any); !ok || len(links) != 0 {
		t.Fatalf("expected empty links, got %v", sharing["links"])
	}

	assets, ok := doc["assets"].(map[string]any)
	if !ok {
		t.Fatal("expected assets section")
	}
	if _, ok := assets["assets"].(map[string]any); !ok {
		t.Fatalf("expected empty asset map, got %v", assets["assets"])
	}

	// Existing content is untouched.
	widgets := board["widgets"].([]any)
	if len(widgets) != 1 || widgets[0].(map[string]any)["id"] != "w1" {
		t.Fatalf("widget list must survive migration, got %v", widgets)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	once, err := docfile.MigrateDocument(parseJSON(t, v0Board))
	if err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	twice, err := docfile.MigrateDocument(once)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if docfile.DocumentVersion(twice) != domain.CurrentDocumentVersion {
		t.Fatal("already-current document must pass through unchanged")
	}
}

func TestMigrate_PreservesExistingValues(t *testing.T) {
	// A v1 doc that already customized its background must keep it.
	raw := parseJSON(t, `{
		"version": 1,
		"meta": {"id": "d"},
		"board": {"widgets": [], "elements": [], "background": {"color": "#ffffff", "pattern": "grid"}},
		"modules": {}
	}`)

	doc, err := docfile.MigrateDocument(raw)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	bg := doc["board"].(map[string]any)["background"].(map[string]any)
	if bg["color"] != "#ffffff" || bg["pattern"] != "grid" {
		t.Fatalf("custom background must survive, got %v", bg)
	}
}

func TestMigrate_TotalFromEveryVersion(t *testing.T) {
	for v := 0; v < domain.CurrentDocumentVersion; v++ {
		raw := parseJSON(t, fmt.Sprintf(
			`{"version": %d, "meta": {"id": "d"}, "board": {"widgets": [], "elements": []}, "modules": {}}`, v))

		doc, err := docfile.MigrateDocument(raw)
		if err != nil {
			t.Fatalf("from v%d: %v", v, err)
		}
		if got := docfile.DocumentVersion(doc); got != domain.CurrentDocumentVersion {
			t.Fatalf("from v%d: expected version %d, got %d", v, domain.CurrentDocumentVersion, got)
		}
	}
}

func TestMigrate_RefusesFutureVersion(t *testing.T) {
	raw := parseJSON(t, `{"version": 99, "meta": {}, "board": {"widgets": [], "elements": []}, "modules": {}}`)

	_, err := docfile.MigrateDocument(raw)
	if !errors.Is(err, docfile.ErrFutureVersion) {
		t.Fatalf("expected ErrFutureVersion, got %v", err)
	}
}

func TestDocumentVersion_Defaults(t *testing.T) {
	if v := docfile.DocumentVersion(map[string]any{}); v != 0 {
		t.Fatalf("absent version must default to 0, got %d", v)
	}
	if v := docfile.DocumentVersion(map[string]any{"version": float64(3)}); v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
	if v := docfile.DocumentVersion("junk"); v != 0 {
		t.Fatalf("non-object must default to 0, got %d", v)
	}
}

func TestNeedsMigration(t *testing.T) {
	if !docfile.NeedsMigration(map[string]any{"version": float64(0)}) {
		t.Fatal("v0 needs migration")
	}
	if docfile.NeedsMigration(map[string]any{"version": float64(domain.CurrentDocumentVersion)}) {
		t.Fatal("current version needs no migration")
	}
}

// ─────────────────────────────────────────────────────────────
// Parse — the full load path
// ─────────────────────────────────────────────────────────────

func TestParse_V0LiteralDecodesTyped(t *testing.T) {
	doc, err := docfile.Parse([]byte(v0Board))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if doc.Version != domain.CurrentDocumentVersion {
		t.Fatalf("expected version %d, got %d", domain.CurrentDocumentVersion, doc.Version)
	}
	if doc.Meta.Title != "Old Board" {
		t.Fatalf("meta lost in decode: %+v", doc.Meta)
	}
	if len(doc.Board.Widgets) != 1 || doc.Board.Widgets[0].ModuleID != "todo" {
		t.Fatalf("widgets lost in decode: %+v", doc.Board.Widgets)
	}
	if doc.Board.Background == nil || doc.Board.Background.Pattern != "dots" {
		t.Fatalf("migrated background missing: %+v", doc.Board.Background)
	}
	if doc.DataSharing.Permissions == nil || len(doc.DataSharing.Permissions) != 0 {
		t.Fatalf("expected empty permissions, got %v", doc.DataSharing.Permissions)
	}
	if _, ok := doc.Modules["w1"]; !ok {
		t.Fatal("module state blob lost in decode")
	}
}

func TestParse_RejectsMalformed(t *testing.T) {
	if _, err := docfile.Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}

	_, err := docfile.Parse([]byte(`{"version": 4, "board": {"widgets": [], "elements": []}, "modules": {}}`))
	var ve *docfile.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing meta, got %v", err)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	original, err := docfile.Parse([]byte(v0Board))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := docfile.Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	reloaded, err := docfile.Parse(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if reloaded.Version != original.Version || reloaded.Meta.ID != original.Meta.ID {
		t.Fatalf("round trip drifted: %+v vs %+v", reloaded.Meta, original.Meta)
	}
}
