// Package access holds the data-sharing permission policy. Every function
// is stateless and pure: permissions and widgets are passed in by the
// caller, never read from a registry or the bus. That keeps "is this
// allowed" testable against arbitrary fixtures and decoupled from "is this
// currently flowing".
package access

import (
	"time"

	"github.com/google/uuid"

	"boardkit/internal/domain"
	"boardkit/internal/registry"
)

// Check reports whether an exact matching read permission exists for the
// (consumer, provider, contract) triple.
func Check(permissions []domain.DataPermission, consumerWidgetID, providerWidgetID, contractID string) bool {
	return FindPermission(permissions, consumerWidgetID, providerWidgetID, contractID) != nil
}

// Status computes the connection status for a (consumer, provider, contract)
// triple. Provider existence wins over permission state: a grant pointing at
// a deleted widget is "broken", not "connected".
func Status(permissions []domain.DataPermission, widgets []domain.Widget, consumerWidgetID, providerWidgetID, contractID string) domain.ConnectionStatus {
	if !widgetExists(widgets, providerWidgetID) {
		return domain.StatusBroken
	}
	if Check(permissions, consumerWidgetID, providerWidgetID, contractID) {
		return domain.StatusConnected
	}
	return domain.StatusDisconnected
}

// NewPermission creates a fresh read grant with a unique id and the current
// timestamp. The caller owns appending it to the document and checking
// FindPermission first so the one-grant-per-triple invariant holds.
func NewPermission(consumerWidgetID, providerWidgetID, contractID string) domain.DataPermission {
	return domain.DataPermission{
		ID:               uuid.New().String(),
		ConsumerWidgetID: consumerWidgetID,
		ProviderWidgetID: providerWidgetID,
		ContractID:       contractID,
		Scope:            domain.PermissionScopeRead,
		GrantedAt:        time.Now(),
	}
}

// LinkFor projects a permission into its visual link.
func LinkFor(p domain.DataPermission) domain.DataLink {
	return domain.DataLink{
		ConsumerWidgetID: p.ConsumerWidgetID,
		ProviderWidgetID: p.ProviderWidgetID,
		ContractID:       p.ContractID,
	}
}

// FindPermission returns the matching read permission, or nil.
func FindPermission(permissions []domain.DataPermission, consumerWidgetID, providerWidgetID, contractID string) *domain.DataPermission {
	for i := range permissions {
		p := &permissions[i]
		if p.ConsumerWidgetID == consumerWidgetID &&
			p.ProviderWidgetID == providerWidgetID &&
			p.ContractID == contractID &&
			p.Scope == domain.PermissionScopeRead {
			return p
		}
	}
	return nil
}

// ConsumerPermissions returns all permissions held by a consumer widget.
func ConsumerPermissions(permissions []domain.DataPermission, consumerWidgetID string) []domain.DataPermission {
	var out []domain.DataPermission
	for _, p := range permissions {
		if p.ConsumerWidgetID == consumerWidgetID {
			out = append(out, p)
		}
	}
	return out
}

// ProviderPermissions returns all permissions granted against a provider widget.
func ProviderPermissions(permissions []domain.DataPermission, providerWidgetID string) []domain.DataPermission {
	var out []domain.DataPermission
	for _, p := range permissions {
		if p.ProviderWidgetID == providerWidgetID {
			out = append(out, p)
		}
	}
	return out
}

// AvailableProviders returns the widgets eligible to provide a contract:
// those whose module type matches the contract's provider id. Unknown
// contracts yield an empty list, never an error.
func AvailableProviders(contracts *registry.ContractRegistry, widgets []domain.Widget, contractID string) []domain.Widget {
	contract, ok := contracts.Get(contractID)
	if !ok {
		return nil
	}
	var out []domain.Widget
	for _, w := range widgets {
		if w.ModuleID == contract.ProviderID {
			out = append(out, w)
		}
	}
	return out
}

// CanProvide reports whether the widget exists and its module type matches
// the contract's provider id.
func CanProvide(contracts *registry.ContractRegistry, widgets []domain.Widget, widgetID, contractID string) bool {
	contract, ok := contracts.Get(contractID)
	if !ok {
		return false
	}
	for _, w := range widgets {
		if w.ID == widgetID {
			return w.ModuleID == contract.ProviderID
		}
	}
	return false
}

func widgetExists(widgets []domain.Widget, id string) bool {
	for _, w := range widgets {
		if w.ID == id {
			return true
		}
	}
	return false
}
