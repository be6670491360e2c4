// Package docfile validates and migrates persisted board documents. It
// operates on the parsed-JSON value handed over by the persistence layer and
// performs no file or archive I/O of its own.
package docfile

import "fmt"

// maxSaneVersion bounds the version field during validation. Anything above
// this is a corrupt file, not a future release.
const maxSaneVersion = 1000

// ValidationError reports a structurally malformed document. It is a
// distinguishable error type so the file-open flow can tell "bad file"
// apart from I/O failures. Documents are never silently repaired.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid document: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ValidationResult is the non-error-returning companion to ValidateDocument,
// for callers that want a value to inspect instead of an error to unwrap.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// CheckDocument runs the same structural checks as ValidateDocument but
// reports the outcome as a value.
func CheckDocument(raw any) ValidationResult {
	if _, err := ValidateDocument(raw); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return ValidationResult{Valid: false, Field: ve.Field, Reason: ve.Reason}
		}
		return ValidationResult{Valid: false, Reason: err.Error()}
	}
	return ValidationResult{Valid: true}
}

// ValidateDocument structurally checks untrusted parsed-JSON input before
// migration, failing fast on the first violation. On success it returns the
// input re-typed as a document map; it never coerces or repairs.
func ValidateDocument(raw any) (map[string]any, error) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("document", "not a JSON object")
	}

	// version may be absent (pre-versioning files default to 0 during
	// migration), but when present it must be a sane number.
	if v, present := doc["version"]; present {
		num, ok := v.(float64)
		if !ok {
			return nil, invalid("version", "not a number")
		}
		if num < 0 || num > maxSaneVersion {
			return nil, invalid("version", fmt.Sprintf("out of range: %v", num))
		}
	}

	if _, ok := doc["meta"].(map[string]any); !ok {
		return nil, invalid("meta", "missing or not an object")
	}

	board, ok := doc["board"].(map[string]any)
	if !ok {
		return nil, invalid("board", "missing or not an object")
	}

	widgets, ok := board["widgets"].([]any)
	if !ok {
		return nil, invalid("board.widgets", "missing or not an array")
	}
	for i, w := range widgets {
		widget, ok := w.(map[string]any)
		if !ok {
			return nil, invalid(fmt.Sprintf("board.widgets[%d]", i), "not an object")
		}
		if s, ok := widget["id"].(string); !ok || s == "" {
			return nil, invalid(fmt.Sprintf("board.widgets[%d].id", i), "missing or not a string")
		}
		if s, ok := widget["moduleId"].(string); !ok || s == "" {
			return nil, invalid(fmt.Sprintf("board.widgets[%d].moduleId", i), "missing or not a string")
		}
	}

	elements, ok := board["elements"].([]any)
	if !ok {
		return nil, invalid("board.elements", "missing or not an array")
	}
	for i, e := range elements {
		element, ok := e.(map[string]any)
		if !ok {
			return nil, invalid(fmt.Sprintf("board.elements[%d]", i), "not an object")
		}
		if s, ok := element["id"].(string); !ok || s == "" {
			return nil, invalid(fmt.Sprintf("board.elements[%d].id", i), "missing or not a string")
		}
		if s, ok := element["type"].(string); !ok || s == "" {
			return nil, invalid(fmt.Sprintf("board.elements[%d].type", i), "missing or not a string")
		}
	}

	if _, present := doc["modules"]; !present {
		return nil, invalid("modules", "missing")
	}

	if vp, present := board["viewport"]; present && vp != nil {
		viewport, ok := vp.(map[string]any)
		if !ok {
			return nil, invalid("board.viewport", "not an object")
		}
		if _, ok := viewport["x"].(float64); !ok {
			return nil, invalid("board.viewport.x", "missing or not a number")
		}
		if _, ok := viewport["y"].(float64); !ok {
			return nil, invalid("board.viewport.y", "missing or not a number")
		}
	}

	return doc, nil
}
