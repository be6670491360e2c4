package service

import (
	"encoding/json"

	"boardkit/internal/access"
	"boardkit/internal/bus"
	"boardkit/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Bindings — the provide/consume integration helpers
// ─────────────────────────────────────────────────────────────

// ProviderBinding connects a provider widget's module state to the bus.
// The module supplies a pure projection from full internal state to the
// contract's public payload; Publish is called whenever the state changes.
type ProviderBinding struct {
	bus        *bus.DataBus
	widgetID   string
	contractID string
	project    func(state any) any
}

// NewProviderBinding creates a binding for one (widget, contract) pair.
func NewProviderBinding(b *bus.DataBus, widgetID, contractID string, project func(state any) any) *ProviderBinding {
	return &ProviderBinding{bus: b, widgetID: widgetID, contractID: contractID, project: project}
}

// Publish projects the state and publishes the result on the bus.
func (p *ProviderBinding) Publish(state any) {
	p.bus.Publish(p.widgetID, p.contractID, p.project(state))
}

// ConsumerBinding manages a consumer widget's subscription lifecycle. Call
// Refresh whenever the widget mounts, its declared connections (stateKey)
// change, or the permission list changes; call Close on teardown. Access is
// checked here, before subscribing — the bus itself trusts its callers.
type ConsumerBinding struct {
	bus      *bus.DataBus
	def      domain.ConsumerDefinition
	widgetID string
	onData   func(providerWidgetID string, data any)
	unsubs   map[string]func()
}

// NewConsumerBinding creates a binding for one consumer widget and one
// consumer definition.
func NewConsumerBinding(b *bus.DataBus, def domain.ConsumerDefinition, widgetID string, onData func(providerWidgetID string, data any)) *ConsumerBinding {
	return &ConsumerBinding{
		bus:      b,
		def:      def,
		widgetID: widgetID,
		onData:   onData,
		unsubs:   make(map[string]func()),
	}
}

// Refresh reconciles subscriptions against the document: the providers named
// in the widget's state (stateKey) that hold a valid read permission are
// subscribed, everything else is unsubscribed. Already-published values are
// replayed synchronously by the bus on subscribe.
func (c *ConsumerBinding) Refresh(doc *domain.BoardkitDocument) {
	declared := ProviderIDsFromState(doc.Modules[c.widgetID], c.def)

	wanted := make(map[string]bool, len(declared))
	for _, providerID := range declared {
		if access.Check(doc.DataSharing.Permissions, c.widgetID, providerID, c.def.ContractID) {
			wanted[providerID] = true
		}
	}

	for providerID, unsub := range c.unsubs {
		if !wanted[providerID] {
			unsub()
			delete(c.unsubs, providerID)
		}
	}
	for providerID := range wanted {
		if _, ok := c.unsubs[providerID]; ok {
			continue
		}
		pid := providerID
		c.unsubs[pid] = c.bus.Subscribe(c.widgetID, pid, c.def.ContractID, func(data any) {
			c.onData(pid, data)
		})
	}
}

// Connected returns the provider ids this binding is currently subscribed to.
func (c *ConsumerBinding) Connected() []string {
	out := make([]string, 0, len(c.unsubs))
	for providerID := range c.unsubs {
		out = append(out, providerID)
	}
	return out
}

// Close unsubscribes everything. Safe to call more than once.
func (c *ConsumerBinding) Close() {
	for providerID, unsub := range c.unsubs {
		unsub()
		delete(c.unsubs, providerID)
	}
}

// ProviderIDsFromState reads the connected provider id(s) out of a consumer
// widget's persisted state blob using the definition's stateKey. The field
// holds a single id for single-select consumers and an id array for
// multi-select ones; both are accepted either way.
func ProviderIDsFromState(raw json.RawMessage, def domain.ConsumerDefinition) []string {
	if len(raw) == 0 || def.StateKey == "" {
		return nil
	}
	var state map[string]any
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil
	}
	switch v := state[def.StateKey].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var ids []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				ids = append(ids, s)
			}
		}
		return ids
	default:
		return nil
	}
}
