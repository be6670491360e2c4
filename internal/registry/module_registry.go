package registry

import (
	"fmt"
	"sort"
	"sync"

	"boardkit/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Module Registry — widget module type definitions
// ─────────────────────────────────────────────────────────────

// ModuleRegistry catalogs widget module type definitions. It is consulted
// when creating widgets (default sizing, fresh state) and when resolving
// module-to-contract eligibility.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]domain.ModuleDefinition
}

// NewModuleRegistry creates an empty module registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{modules: make(map[string]domain.ModuleDefinition)}
}

// Register adds a module definition. Duplicate ids fail loudly.
func (r *ModuleRegistry) Register(def domain.ModuleDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("module registry: definition has no id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[def.ID]; exists {
		return fmt.Errorf("module registry: duplicate registration for %q", def.ID)
	}
	r.modules[def.ID] = def
	return nil
}

// Unregister removes a module definition by id.
func (r *ModuleRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, id)
}

// Get returns the definition for a module type.
func (r *ModuleRegistry) Get(id string) (domain.ModuleDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.modules[id]
	return def, ok
}

// Has reports whether a module type is registered.
func (r *ModuleRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[id]
	return ok
}

// All returns every registered module definition, sorted by id.
func (r *ModuleRegistry) All() []domain.ModuleDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ModuleDefinition, 0, len(r.modules))
	for _, def := range r.modules {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear removes all module definitions. Intended for test isolation.
func (r *ModuleRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = make(map[string]domain.ModuleDefinition)
}
