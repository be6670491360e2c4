package domain

import "encoding/json"

// CurrentDocumentVersion is the schema version written by this release.
// Documents persisted with a lower version are migrated on load; documents
// with a higher version are refused (no forward compatibility).
const CurrentDocumentVersion = 4

// BoardkitDocument is the persisted unit: one board file.
type BoardkitDocument struct {
	Version     int                        `json:"version"`
	Meta        DocumentMeta               `json:"meta"`
	Board       Board                      `json:"board"`
	Modules     map[string]json.RawMessage `json:"modules"`
	DataSharing DataSharing                `json:"dataSharing"`
	Assets      AssetRegistry              `json:"assets"`
}

type DocumentMeta struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Board holds everything drawn on the canvas.
type Board struct {
	Widgets        []Widget        `json:"widgets"`
	Elements       []Element       `json:"elements"`
	Viewport       *Viewport       `json:"viewport,omitempty"`
	Background     *Background     `json:"background"`
	CanvasSettings *CanvasSettings `json:"canvasSettings"`
}

// Widget is a module instance placed on the board. Its module-specific
// state lives under Modules[widget.ID] in the document.
type Widget struct {
	ID       string  `json:"id"`
	ModuleID string  `json:"moduleId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	ZIndex   int     `json:"zIndex"`
}

// Element is a plain canvas element (shape, stroke, sticky) with no module state.
type Element struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Data   string  `json:"data,omitempty"`
}

type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

type Background struct {
	Color   string `json:"color"`
	Pattern string `json:"pattern"` // "none", "dots", "grid"
}

type CanvasSettings struct {
	GridSize    float64 `json:"gridSize"`
	SnapToGrid  bool    `json:"snapToGrid"`
	ShowRulers  bool    `json:"showRulers"`
	DarkCanvas  bool    `json:"darkCanvas"`
	PatternSize float64 `json:"patternSize"`
}

// DataSharing holds the persisted state of the inter-module data-sharing layer.
// Links are derivable from permissions and kept only for render convenience.
type DataSharing struct {
	Permissions []DataPermission `json:"permissions"`
	Links       []DataLink       `json:"links"`
}

// AssetRegistry indexes binary assets stored alongside the document.
type AssetRegistry struct {
	Assets map[string]Asset `json:"assets"`
}

type Asset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Path     string `json:"path"` // path inside the .boardkit container
	Size     int64  `json:"size"`
}

// FindWidget returns the widget with the given id, or nil.
func (b *Board) FindWidget(id string) *Widget {
	for i := range b.Widgets {
		if b.Widgets[i].ID == id {
			return &b.Widgets[i]
		}
	}
	return nil
}

// HasWidget reports whether a widget with the given id exists on the board.
func (b *Board) HasWidget(id string) bool {
	return b.FindWidget(id) != nil
}

// DefaultBackground returns the background used for new and migrated documents.
func DefaultBackground() *Background {
	return &Background{Color: "#1a1a1f", Pattern: "dots"}
}

// DefaultCanvasSettings returns the canvas settings used for new and migrated documents.
func DefaultCanvasSettings() *CanvasSettings {
	return &CanvasSettings{GridSize: 20, SnapToGrid: false, ShowRulers: false, DarkCanvas: true, PatternSize: 24}
}
