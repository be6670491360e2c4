package app

import (
	"encoding/json"
	"fmt"

	"boardkit/internal/domain"
)

// ============================================================
// Widget and sharing facade — the shell surface over the services
// ============================================================
//
// Every method here holds a.mu for its full duration: the document's maps
// and slices are shared with the autosave goroutine, so mutations must never
// interleave with the save-path encode.

// AddWidget places a widget on the open board and binds it to the bus.
func (a *App) AddWidget(moduleID string, x, y float64) (*domain.Widget, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return nil, fmt.Errorf("no board open")
	}
	w, err := a.board.AddWidget(a.ctx, a.doc, moduleID, x, y)
	if err != nil {
		return nil, err
	}
	a.bindings.BindWidget(a.doc, *w)
	a.dirty = true

	// The caller reads the widget after the lock is released.
	out := *w
	return &out, nil
}

// MoveWidget updates a widget's position.
func (a *App) MoveWidget(widgetID string, x, y float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return fmt.Errorf("no board open")
	}
	if err := a.board.MoveWidget(a.doc, widgetID, x, y); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

// ResizeWidget updates a widget's size.
func (a *App) ResizeWidget(widgetID string, width, height float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return fmt.Errorf("no board open")
	}
	if err := a.board.ResizeWidget(a.doc, widgetID, width, height); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

// DeleteWidget removes a widget with the full cascade: module state,
// permissions, links, bus subscriptions, cached publishes, and bindings.
func (a *App) DeleteWidget(widgetID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return fmt.Errorf("no board open")
	}
	a.bindings.UnbindWidget(widgetID)
	if err := a.board.DeleteWidget(a.ctx, a.doc, widgetID); err != nil {
		return err
	}
	a.bindings.RefreshConsumers(a.doc)
	a.dirty = true
	return nil
}

// ModuleStateJSON returns a widget's persisted module state blob.
func (a *App) ModuleStateJSON(widgetID string) (json.RawMessage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return nil, fmt.Errorf("no board open")
	}
	if !a.doc.Board.HasWidget(widgetID) {
		return nil, fmt.Errorf("widget %s not found", widgetID)
	}
	return a.doc.Modules[widgetID], nil
}

// SetModuleStateJSON replaces a widget's module state from a raw blob,
// republishes the provider projection, and re-reconciles consumer
// subscriptions (the blob may have changed the widget's source selection).
func (a *App) SetModuleStateJSON(widgetID string, raw json.RawMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return fmt.Errorf("no board open")
	}
	w := a.doc.Board.FindWidget(widgetID)
	if w == nil {
		return fmt.Errorf("widget %s not found", widgetID)
	}
	def, ok := a.modules.Get(w.ModuleID)
	if !ok {
		return fmt.Errorf("unknown module type %q", w.ModuleID)
	}
	state, err := def.DecodeState(raw)
	if err != nil {
		return fmt.Errorf("decode %s state: %w", w.ModuleID, err)
	}
	if err := a.board.SetModuleState(a.ctx, a.doc, widgetID, state); err != nil {
		return err
	}

	a.bindings.publish(a.doc, widgetID)
	a.bindings.RefreshConsumers(a.doc)
	a.dirty = true
	return nil
}

// Connect grants a consumer widget access to a provider widget's contract
// and subscribes it. The consumer's source selection in its state is the
// caller's responsibility; the grant alone does not move data until the
// consumer declares the source.
func (a *App) Connect(consumerWidgetID, providerWidgetID, contractID string) (*domain.DataPermission, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return nil, fmt.Errorf("no board open")
	}
	perm, err := a.sharing.Connect(a.ctx, a.doc, consumerWidgetID, providerWidgetID, contractID)
	if err != nil {
		return nil, err
	}
	a.bindings.RefreshConsumers(a.doc)
	a.dirty = true

	out := *perm
	return &out, nil
}

// Disconnect revokes a grant and unsubscribes the consumer.
func (a *App) Disconnect(consumerWidgetID, providerWidgetID, contractID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return false, fmt.Errorf("no board open")
	}
	removed := a.sharing.Disconnect(a.ctx, a.doc, consumerWidgetID, providerWidgetID, contractID)
	if removed {
		a.bindings.RefreshConsumers(a.doc)
		a.dirty = true
	}
	return removed, nil
}

// ConnectionStatus computes the live status for a triple.
func (a *App) ConnectionStatus(consumerWidgetID, providerWidgetID, contractID string) (domain.ConnectionStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return "", fmt.Errorf("no board open")
	}
	return a.sharing.Status(a.doc, consumerWidgetID, providerWidgetID, contractID), nil
}

// AvailableProviders lists the widgets on the open board eligible to provide
// a contract.
func (a *App) AvailableProviders(contractID string) ([]domain.Widget, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return nil, fmt.Errorf("no board open")
	}
	return a.sharing.AvailableProviders(a.doc, contractID), nil
}

// Contracts lists every registered data contract.
func (a *App) Contracts() []domain.DataContract {
	return a.contracts.All()
}

// LatestData returns the most recent payload a provider published under a
// contract, if any.
func (a *App) LatestData(providerWidgetID, contractID string) (any, bool) {
	return a.bus.GetData(providerWidgetID, contractID)
}
