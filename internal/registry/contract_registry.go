package registry

import (
	"fmt"
	"sort"
	"sync"

	"boardkit/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Contract Registry — catalog of data contracts modules can provide
// ─────────────────────────────────────────────────────────────

// ContractRegistry is the static catalog of typed data contracts.
// Contracts are registered once at startup. Duplicate registration is an
// error by policy: silently overwriting a contract id would let two module
// packages fight over a schema without anyone noticing.
type ContractRegistry struct {
	mu        sync.RWMutex
	contracts map[string]domain.DataContract
}

// NewContractRegistry creates an empty contract registry.
func NewContractRegistry() *ContractRegistry {
	return &ContractRegistry{contracts: make(map[string]domain.DataContract)}
}

// Register adds a contract to the catalog. The contract id must be non-empty
// and not already registered.
func (r *ContractRegistry) Register(c domain.DataContract) error {
	if c.ID == "" {
		return fmt.Errorf("contract registry: contract has no id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.contracts[c.ID]; exists {
		return fmt.Errorf("contract registry: duplicate registration for %q", c.ID)
	}
	r.contracts[c.ID] = c
	return nil
}

// Unregister removes a contract by id. Unknown ids are a no-op.
func (r *ContractRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contracts, id)
}

// Get returns the contract with the given id.
func (r *ContractRegistry) Get(id string) (domain.DataContract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[id]
	return c, ok
}

// Has reports whether a contract with the given id is registered.
func (r *ContractRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.contracts[id]
	return ok
}

// ByProvider returns all contracts provided by the given module type,
// sorted by contract id.
func (r *ContractRegistry) ByProvider(providerID string) []domain.DataContract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.DataContract
	for _, c := range r.contracts {
		if c.ProviderID == providerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every registered contract, sorted by id.
func (r *ContractRegistry) All() []domain.DataContract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DataContract, 0, len(r.contracts))
	for _, c := range r.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear removes all contracts. Intended for test isolation.
func (r *ContractRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts = make(map[string]domain.DataContract)
}
