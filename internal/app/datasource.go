package app

import (
	"encoding/json"
	"fmt"

	"boardkit/internal/modules"
)

// ============================================================
// Datasource widgets — external database refresh
// ============================================================

// secretKey is the keychain entry name for a datasource widget's password.
func secretKey(widgetID string) string {
	return "datasource:" + widgetID
}

// SetDataSourcePassword stores a datasource widget's password in the secret
// store. Passwords never enter the document.
func (a *App) SetDataSourcePassword(widgetID, password string) error {
	if password == "" {
		return a.secrets.Delete(secretKey(widgetID))
	}
	return a.secrets.Set(secretKey(widgetID), []byte(password))
}

// RefreshDataSource runs a datasource widget's query against its configured
// database, stores the result in the widget state, and republishes the table
// contract. The query runs without the document lock so a slow database
// never stalls the board.
func (a *App) RefreshDataSource(widgetID string) error {
	a.mu.Lock()
	if a.doc == nil {
		a.mu.Unlock()
		return fmt.Errorf("no board open")
	}
	w := a.doc.Board.FindWidget(widgetID)
	if w == nil {
		a.mu.Unlock()
		return fmt.Errorf("widget %s not found", widgetID)
	}
	if w.ModuleID != modules.ModuleDataSource {
		a.mu.Unlock()
		return fmt.Errorf("widget %s is not a datasource", widgetID)
	}

	var state modules.DataSourceState
	if raw, ok := a.doc.Modules[widgetID]; ok {
		if err := json.Unmarshal(raw, &state); err != nil {
			a.mu.Unlock()
			return fmt.Errorf("decode datasource state: %w", err)
		}
	}
	a.mu.Unlock()

	password := ""
	if pw, err := a.secrets.Get(secretKey(widgetID)); err == nil && pw != nil {
		password = string(pw)
	}

	state, err := modules.RefreshDataSource(a.ctx, state, password)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return fmt.Errorf("board closed during refresh")
	}
	if err := a.board.SetModuleState(a.ctx, a.doc, widgetID, state); err != nil {
		return err
	}
	a.bindings.publish(a.doc, widgetID)
	a.dirty = true
	return nil
}
