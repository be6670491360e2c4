package modules

import (
	"fmt"

	"boardkit/internal/domain"
	"boardkit/internal/registry"
)

// moduleEntry bundles everything one built-in module contributes: its catalog
// definition, the contracts it provides, the consumer definitions it declares,
// and the projection from internal state to the provided contract's payload.
type moduleEntry struct {
	Definition domain.ModuleDefinition
	Contracts  []domain.DataContract
	Consumers  []domain.ConsumerDefinition

	// Project maps full module state to the public payload published under
	// the module's provided contract. Nil for modules that provide nothing.
	Project func(state any) any
}

func baseDefinition(id, name string, width, height float64) domain.ModuleDefinition {
	return domain.ModuleDefinition{
		ID:            id,
		Name:          name,
		DefaultWidth:  width,
		DefaultHeight: height,
	}
}

// Builtins returns the entries for every built-in module.
func Builtins() []moduleEntry {
	return []moduleEntry{
		textDefinition(),
		todoDefinition(),
		counterDefinition(),
		habitDefinition(),
		taskRadarDefinition(),
		calendarDefinition(),
		dataSourceDefinition(),
	}
}

// RegisterBuiltins registers all built-in modules, their contracts, and their
// consumer definitions. Registration order is fixed; a duplicate anywhere is a
// programming error and surfaces as an error here.
func RegisterBuiltins(contracts *registry.ContractRegistry, consumers *registry.ConsumerRegistry, mods *registry.ModuleRegistry) error {
	for _, entry := range Builtins() {
		if err := mods.Register(entry.Definition); err != nil {
			return fmt.Errorf("register module %s: %w", entry.Definition.ID, err)
		}
		for _, contract := range entry.Contracts {
			if err := contracts.Register(contract); err != nil {
				return fmt.Errorf("register contract %s: %w", contract.ID, err)
			}
		}
		for _, consumer := range entry.Consumers {
			if err := consumers.Register(consumer); err != nil {
				return fmt.Errorf("register consumer %s/%s: %w", consumer.ModuleID, consumer.ContractID, err)
			}
		}
	}
	return nil
}

// ProjectionFor returns the contract id and projection function for a provider
// module, or ok=false when the module provides nothing.
func ProjectionFor(moduleID string) (contractID string, project func(state any) any, ok bool) {
	for _, entry := range Builtins() {
		if entry.Definition.ID != moduleID || entry.Project == nil {
			continue
		}
		return entry.Contracts[0].ID, entry.Project, true
	}
	return "", nil, false
}
