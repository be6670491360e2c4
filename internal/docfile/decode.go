package docfile

import (
	"encoding/json"
	"fmt"

	"boardkit/internal/domain"
)

// Parse is the full load path for untrusted file bytes:
// parse JSON → validate structure → migrate to current → decode typed.
// Any failure surfaces to the caller; the file-open flow is expected to
// refuse the document rather than attempt a partial load.
func Parse(data []byte) (*domain.BoardkitDocument, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	validated, err := ValidateDocument(raw)
	if err != nil {
		return nil, err
	}

	migrated, err := MigrateDocument(validated)
	if err != nil {
		return nil, fmt.Errorf("migrate document: %w", err)
	}

	return Decode(migrated)
}

// Decode converts a validated, current-version document map into the typed model.
func Decode(doc map[string]any) (*domain.BoardkitDocument, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document map: %w", err)
	}
	var out domain.BoardkitDocument
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if out.Modules == nil {
		out.Modules = map[string]json.RawMessage{}
	}
	return &out, nil
}

// Encode serializes a typed document for persistence.
func Encode(doc *domain.BoardkitDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
