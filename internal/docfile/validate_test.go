package docfile_test

import (
	"encoding/json"
	"errors"
	"testing"

	"boardkit/internal/docfile"
)

func parseJSON(t *testing.T, s string) any {
	t.Helper()
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("fixture JSON: %v", err)
	}
	return raw
}

func minimalDoc(t *testing.T) map[string]any {
	t.Helper()
	return parseJSON(t, `{
		"version": 4,
		"meta": {"id": "doc-1", "title": "Test"},
		"board": {"widgets": [], "elements": []},
		"modules": {}
	}`).(map[string]any)
}

// ─────────────────────────────────────────────────────────────
// ValidateDocument
// ─────────────────────────────────────────────────────────────

func TestValidate_MinimalDocumentPasses(t *testing.T) {
	if _, err := docfile.ValidateDocument(minimalDoc(t)); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidate_NotAnObject(t *testing.T) {
	for _, raw := range []any{nil, "string", float64(3), []any{}} {
		_, err := docfile.ValidateDocument(raw)
		var ve *docfile.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError for %T, got %v", raw, err)
		}
	}
}

func TestValidate_VersionRules(t *testing.T) {
	doc := minimalDoc(t)

	delete(doc, "version") // absent is fine; migration defaults it to 0
	if _, err := docfile.ValidateDocument(doc); err != nil {
		t.Fatalf("absent version must be accepted, got %v", err)
	}

	doc["version"] = "4"
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("string version must be rejected")
	}

	doc["version"] = float64(-1)
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("negative version must be rejected")
	}

	doc["version"] = float64(100000)
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("absurd version must be rejected as corrupt")
	}
}

func TestValidate_MissingSections(t *testing.T) {
	cases := []string{"meta", "board", "modules"}
	for _, field := range cases {
		doc := minimalDoc(t)
		delete(doc, field)
		_, err := docfile.ValidateDocument(doc)
		var ve *docfile.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("missing %s: expected ValidationError, got %v", field, err)
		}
		if ve.Field != field {
			t.Fatalf("missing %s: error names field %q", field, ve.Field)
		}
	}
}

func TestValidate_WidgetShape(t *testing.T) {
	doc := minimalDoc(t)
	board := doc["board"].(map[string]any)

	board["widgets"] = []any{map[string]any{"id": "w1"}} // no moduleId
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("widget without moduleId must be rejected")
	}

	board["widgets"] = []any{map[string]any{"id": "", "moduleId": "todo"}}
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("widget with empty id must be rejected")
	}

	board["widgets"] = []any{"not-an-object"}
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("non-object widget must be rejected")
	}
}

func TestValidate_ElementShape(t *testing.T) {
	doc := minimalDoc(t)
	board := doc["board"].(map[string]any)

	board["elements"] = []any{map[string]any{"id": "e1"}} // no type
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("element without type must be rejected")
	}
}

func TestValidate_ViewportNumbers(t *testing.T) {
	doc := minimalDoc(t)
	board := doc["board"].(map[string]any)

	board["viewport"] = map[string]any{"x": "left", "y": float64(0)}
	if _, err := docfile.ValidateDocument(doc); err == nil {
		t.Fatal("non-numeric viewport.x must be rejected")
	}

	board["viewport"] = map[string]any{"x": float64(10), "y": float64(-5), "zoom": float64(1)}
	if _, err := docfile.ValidateDocument(doc); err != nil {
		t.Fatalf("numeric viewport must pass, got %v", err)
	}
}

func TestCheckDocument_ReportsFieldAndReason(t *testing.T) {
	doc := minimalDoc(t)
	delete(doc, "meta")

	res := docfile.CheckDocument(doc)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if res.Field != "meta" || res.Reason == "" {
		t.Fatalf("expected field/reason populated, got %+v", res)
	}

	if res := docfile.CheckDocument(minimalDoc(t)); !res.Valid {
		t.Fatalf("expected valid result, got %+v", res)
	}
}
