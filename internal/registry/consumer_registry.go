package registry

import (
	"fmt"
	"sort"
	"sync"

	"boardkit/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Consumer Registry — which module types consume which contracts
// ─────────────────────────────────────────────────────────────

// ConsumerRegistry catalogs consumer definitions keyed by
// (moduleId, contractId), independent of any particular document.
// Duplicate registration fails loudly, same policy as ContractRegistry.
type ConsumerRegistry struct {
	mu   sync.RWMutex
	defs map[string]domain.ConsumerDefinition
}

// NewConsumerRegistry creates an empty consumer registry.
func NewConsumerRegistry() *ConsumerRegistry {
	return &ConsumerRegistry{defs: make(map[string]domain.ConsumerDefinition)}
}

func consumerKey(moduleID, contractID string) string {
	return moduleID + ":" + contractID
}

// Register adds a consumer definition. At most one definition may exist per
// (moduleId, contractId) pair.
func (r *ConsumerRegistry) Register(def domain.ConsumerDefinition) error {
	if def.ModuleID == "" || def.ContractID == "" {
		return fmt.Errorf("consumer registry: definition needs moduleId and contractId")
	}
	key := consumerKey(def.ModuleID, def.ContractID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[key]; exists {
		return fmt.Errorf("consumer registry: duplicate registration for %s", key)
	}
	r.defs[key] = def
	return nil
}

// Unregister removes the definition for a (moduleId, contractId) pair.
func (r *ConsumerRegistry) Unregister(moduleID, contractID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.defs, consumerKey(moduleID, contractID))
}

// Get returns the definition for a (moduleId, contractId) pair.
func (r *ConsumerRegistry) Get(moduleID, contractID string) (domain.ConsumerDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[consumerKey(moduleID, contractID)]
	return def, ok
}

// ByModule returns all definitions for a module type, sorted by contract id.
func (r *ConsumerRegistry) ByModule(moduleID string) []domain.ConsumerDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ConsumerDefinition
	for _, def := range r.defs {
		if def.ModuleID == moduleID {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractID < out[j].ContractID })
	return out
}

// ByContract returns all definitions consuming a contract, sorted by module id.
func (r *ConsumerRegistry) ByContract(contractID string) []domain.ConsumerDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ConsumerDefinition
	for _, def := range r.defs {
		if def.ContractID == contractID {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleID < out[j].ModuleID })
	return out
}

// IsConsumer reports whether the module type consumes any contract.
func (r *ConsumerRegistry) IsConsumer(moduleID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, def := range r.defs {
		if def.ModuleID == moduleID {
			return true
		}
	}
	return false
}

// IsConsumerOf reports whether the module type consumes the given contract.
func (r *ConsumerRegistry) IsConsumerOf(moduleID, contractID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[consumerKey(moduleID, contractID)]
	return ok
}

// All returns every registered definition, sorted by (moduleId, contractId).
func (r *ConsumerRegistry) All() []domain.ConsumerDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ConsumerDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModuleID != out[j].ModuleID {
			return out[i].ModuleID < out[j].ModuleID
		}
		return out[i].ContractID < out[j].ContractID
	})
	return out
}

// Clear removes all definitions. Intended for test isolation.
func (r *ConsumerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = make(map[string]domain.ConsumerDefinition)
}
