package docfile

// The migration chain. Append-only: every release that changes the persisted
// shape adds exactly one entry, and for every version v below current exactly
// one entry has FromVersion == v.
var migrations = []Migration{
	// v0 → v1: boards gained a configurable background.
	{FromVersion: 0, ToVersion: 1, Migrate: func(doc map[string]any) map[string]any {
		board := ensureObject(doc, "board")
		if _, ok := board["background"].(map[string]any); !ok {
			board["background"] = map[string]any{"color": "#1a1a1f", "pattern": "dots"}
		}
		return doc
	}},

	// v1 → v2: canvas settings (grid, snapping) moved into the document.
	{FromVersion: 1, ToVersion: 2, Migrate: func(doc map[string]any) map[string]any {
		board := ensureObject(doc, "board")
		if _, ok := board["canvasSettings"].(map[string]any); !ok {
			board["canvasSettings"] = map[string]any{
				"gridSize":    float64(20),
				"snapToGrid":  false,
				"showRulers":  false,
				"darkCanvas":  true,
				"patternSize": float64(24),
			}
		}
		return doc
	}},

	// v2 → v3: the data-sharing layer landed; older boards have no grants.
	{FromVersion: 2, ToVersion: 3, Migrate: func(doc map[string]any) map[string]any {
		sharing := ensureObject(doc, "dataSharing")
		if _, ok := sharing["permissions"].([]any); !ok {
			sharing["permissions"] = []any{}
		}
		if _, ok := sharing["links"].([]any); !ok {
			sharing["links"] = []any{}
		}
		return doc
	}},

	// v3 → v4: the asset registry for embedded images/files.
	{FromVersion: 3, ToVersion: 4, Migrate: func(doc map[string]any) map[string]any {
		assets := ensureObject(doc, "assets")
		if _, ok := assets["assets"].(map[string]any); !ok {
			assets["assets"] = map[string]any{}
		}
		return doc
	}},
}

// ensureObject returns doc[key] as an object, creating it if absent or of
// the wrong shape.
func ensureObject(doc map[string]any, key string) map[string]any {
	if obj, ok := doc[key].(map[string]any); ok {
		return obj
	}
	obj := map[string]any{}
	doc[key] = obj
	return obj
}
