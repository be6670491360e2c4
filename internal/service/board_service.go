package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"boardkit/internal/domain"
	"boardkit/internal/registry"
)

// ─────────────────────────────────────────────────────────────
// Board Service — document lifecycle and widget CRUD
// ─────────────────────────────────────────────────────────────

// BoardService manages the in-memory document: creating documents, placing
// and removing widgets and elements, and the per-widget module state blobs.
// The document itself is owned by the caller (the App holds the open one);
// every method takes it explicitly so multiple boards can coexist.
type BoardService struct {
	modules *registry.ModuleRegistry
	sharing *SharingService
	emitter EventEmitter
}

// NewBoardService creates a BoardService.
func NewBoardService(modules *registry.ModuleRegistry, sharing *SharingService, emitter EventEmitter) *BoardService {
	return &BoardService{modules: modules, sharing: sharing, emitter: emitter}
}

// NewDocument creates an empty document at the current schema version.
func (s *BoardService) NewDocument(title string) *domain.BoardkitDocument {
	now := time.Now().UTC().Format(time.RFC3339)
	return &domain.BoardkitDocument{
		Version: domain.CurrentDocumentVersion,
		Meta: domain.DocumentMeta{
			ID:        uuid.New().String(),
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Board: domain.Board{
			Widgets:        []domain.Widget{},
			Elements:       []domain.Element{},
			Viewport:       &domain.Viewport{Zoom: 1.0},
			Background:     domain.DefaultBackground(),
			CanvasSettings: domain.DefaultCanvasSettings(),
		},
		Modules: map[string]json.RawMessage{},
		DataSharing: domain.DataSharing{
			Permissions: []domain.DataPermission{},
			Links:       []domain.DataLink{},
		},
		Assets: domain.AssetRegistry{Assets: map[string]domain.Asset{}},
	}
}

// AddWidget places a new widget of the given module type and seeds its
// module state with the type's default.
func (s *BoardService) AddWidget(ctx context.Context, doc *domain.BoardkitDocument, moduleID string, x, y float64) (*domain.Widget, error) {
	def, ok := s.modules.Get(moduleID)
	if !ok {
		return nil, fmt.Errorf("unknown module type %q", moduleID)
	}

	w := domain.Widget{
		ID:       uuid.New().String(),
		ModuleID: moduleID,
		X:        x,
		Y:        y,
		Width:    def.DefaultWidth,
		Height:   def.DefaultHeight,
	}
	doc.Board.Widgets = append(doc.Board.Widgets, w)

	if def.NewState != nil {
		raw, err := def.EncodeState(def.NewState())
		if err != nil {
			return nil, fmt.Errorf("seed %s state: %w", moduleID, err)
		}
		doc.Modules[w.ID] = raw
	}

	s.touch(doc)
	s.emitter.Emit(ctx, "board:widget-added", map[string]string{"widgetId": w.ID, "moduleId": moduleID})
	return &doc.Board.Widgets[len(doc.Board.Widgets)-1], nil
}

// MoveWidget updates a widget's position.
func (s *BoardService) MoveWidget(doc *domain.BoardkitDocument, widgetID string, x, y float64) error {
	w := doc.Board.FindWidget(widgetID)
	if w == nil {
		return fmt.Errorf("widget %s not found", widgetID)
	}
	w.X, w.Y = x, y
	s.touch(doc)
	return nil
}

// ResizeWidget updates a widget's size.
func (s *BoardService) ResizeWidget(doc *domain.BoardkitDocument, widgetID string, width, height float64) error {
	w := doc.Board.FindWidget(widgetID)
	if w == nil {
		return fmt.Errorf("widget %s not found", widgetID)
	}
	w.Width, w.Height = width, height
	s.touch(doc)
	return nil
}

// DeleteWidget removes a widget and cascades: its module state, every
// permission and link that references it, and its bus subscriptions and
// cached publishes.
func (s *BoardService) DeleteWidget(ctx context.Context, doc *domain.BoardkitDocument, widgetID string) error {
	idx := -1
	for i := range doc.Board.Widgets {
		if doc.Board.Widgets[i].ID == widgetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("widget %s not found", widgetID)
	}

	doc.Board.Widgets = append(doc.Board.Widgets[:idx], doc.Board.Widgets[idx+1:]...)
	delete(doc.Modules, widgetID)
	s.sharing.RemoveWidget(ctx, doc, widgetID)

	s.touch(doc)
	s.emitter.Emit(ctx, "board:widget-deleted", map[string]string{"widgetId": widgetID})
	return nil
}

// ModuleState decodes the persisted state blob of a widget using its module
// type's definition.
func (s *BoardService) ModuleState(doc *domain.BoardkitDocument, widgetID string) (any, error) {
	w := doc.Board.FindWidget(widgetID)
	if w == nil {
		return nil, fmt.Errorf("widget %s not found", widgetID)
	}
	def, ok := s.modules.Get(w.ModuleID)
	if !ok {
		return nil, fmt.Errorf("unknown module type %q", w.ModuleID)
	}
	raw, ok := doc.Modules[widgetID]
	if !ok {
		if def.NewState == nil {
			return nil, nil
		}
		return def.NewState(), nil
	}
	if def.DecodeState == nil {
		return raw, nil
	}
	return def.DecodeState(raw)
}

// SetModuleState encodes and stores a widget's module state.
func (s *BoardService) SetModuleState(ctx context.Context, doc *domain.BoardkitDocument, widgetID string, state any) error {
	w := doc.Board.FindWidget(widgetID)
	if w == nil {
		return fmt.Errorf("widget %s not found", widgetID)
	}
	def, ok := s.modules.Get(w.ModuleID)
	if !ok {
		return fmt.Errorf("unknown module type %q", w.ModuleID)
	}
	if def.EncodeState == nil {
		return fmt.Errorf("module type %q has no state", w.ModuleID)
	}
	raw, err := def.EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode %s state: %w", w.ModuleID, err)
	}
	doc.Modules[widgetID] = raw
	s.touch(doc)
	s.emitter.Emit(ctx, "board:module-state-changed", map[string]string{"widgetId": widgetID})
	return nil
}

// AddElement places a plain canvas element (shape, stroke, sticky).
func (s *BoardService) AddElement(doc *domain.BoardkitDocument, elemType string, x, y, width, height float64) *domain.Element {
	e := domain.Element{
		ID:     uuid.New().String(),
		Type:   elemType,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
	doc.Board.Elements = append(doc.Board.Elements, e)
	s.touch(doc)
	return &doc.Board.Elements[len(doc.Board.Elements)-1]
}

// DeleteElement removes a canvas element.
func (s *BoardService) DeleteElement(doc *domain.BoardkitDocument, elementID string) error {
	for i := range doc.Board.Elements {
		if doc.Board.Elements[i].ID == elementID {
			doc.Board.Elements = append(doc.Board.Elements[:i], doc.Board.Elements[i+1:]...)
			s.touch(doc)
			return nil
		}
	}
	return fmt.Errorf("element %s not found", elementID)
}

// SetViewport stores the current pan/zoom.
func (s *BoardService) SetViewport(doc *domain.BoardkitDocument, x, y, zoom float64) {
	doc.Board.Viewport = &domain.Viewport{X: x, Y: y, Zoom: zoom}
	s.touch(doc)
}

func (s *BoardService) touch(doc *domain.BoardkitDocument) {
	doc.Meta.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
