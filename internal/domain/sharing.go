package domain

import "time"

// PermissionScope is the access level a permission grants.
// Only read access exists today.
type PermissionScope string

const PermissionScopeRead PermissionScope = "read"

// DataContract describes the shape of data one module type may publish for
// others to consume. Contracts are registered once at startup and never mutate.
type DataContract struct {
	ID          string `json:"id"`      // globally unique, e.g. "boardkit.todo.v1"
	Name        string `json:"name"`    // display name
	Description string `json:"description"`
	Version     string `json:"version"` // semantic version of the payload shape
	ProviderID  string `json:"providerId"` // module type allowed to provide this contract
}

// ConsumerDefinition declares a module type's capacity to consume a contract.
// At most one definition exists per (moduleId, contractId) pair.
type ConsumerDefinition struct {
	ModuleID    string `json:"moduleId"`
	ContractID  string `json:"contractId"`
	MultiSelect bool   `json:"multiSelect"` // many providers at once vs exactly one
	StateKey    string `json:"stateKey"`    // field in consumer state holding connected provider id(s)
	SourceLabel string `json:"sourceLabel"` // display only
}

// DataPermission is a persisted grant authorizing one consumer widget to read
// one provider widget's data under one contract. At most one active permission
// exists per (consumer, provider, contract) triple; the sharing service
// enforces this before creating new grants.
type DataPermission struct {
	ID               string          `json:"id"`
	ConsumerWidgetID string          `json:"consumerWidgetId"`
	ProviderWidgetID string          `json:"providerWidgetId"`
	ContractID       string          `json:"contractId"`
	Scope            PermissionScope `json:"scope"`
	GrantedAt        time.Time       `json:"grantedAt"`
}

// DataLink is the ephemeral visual pairing derived from a permission.
// One link corresponds to exactly one permission; links are never the
// source of truth.
type DataLink struct {
	ConsumerWidgetID string `json:"consumerWidgetId"`
	ProviderWidgetID string `json:"providerWidgetId"`
	ContractID       string `json:"contractId"`
}

// ConnectionStatus is computed on demand per (consumer, provider, contract);
// it is never persisted.
type ConnectionStatus string

const (
	// StatusConnected means a read permission exists and the provider widget is on the board.
	StatusConnected ConnectionStatus = "connected"
	// StatusDisconnected means no permission exists.
	StatusDisconnected ConnectionStatus = "disconnected"
	// StatusBroken means a permission would apply but the provider widget no longer exists.
	StatusBroken ConnectionStatus = "broken"
)

// ModuleDefinition is the catalog entry for a widget module type: how its
// state is created, (de)serialized, and how big a fresh widget should be.
type ModuleDefinition struct {
	ID            string
	Name          string
	DefaultWidth  float64
	DefaultHeight float64

	// NewState returns a fresh default state for a new widget.
	NewState func() any
	// DecodeState parses a persisted state blob from the document.
	DecodeState func(raw []byte) (any, error)
	// EncodeState serializes module state for persistence.
	EncodeState func(state any) ([]byte, error)
}
