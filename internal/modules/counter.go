package modules

import "boardkit/internal/domain"

// ModuleCounter is a simple tally. It provides ContractCounter.
const ModuleCounter = "counter"

// ContractCounter is the public payload contract for counters.
const ContractCounter = "boardkit.counter.v1"

type CounterState struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Step  float64 `json:"step"`
}

type PublicCounter struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func counterDefinition() moduleEntry {
	def := baseDefinition(ModuleCounter, "Counter", 180, 120)
	jsonState(&def, func() CounterState {
		return CounterState{Label: "Counter", Step: 1}
	})
	return moduleEntry{
		Definition: def,
		Contracts: []domain.DataContract{{
			ID:          ContractCounter,
			Name:        "Counter",
			Description: "Current value of a counter",
			Version:     "1.0.0",
			ProviderID:  ModuleCounter,
		}},
		Project: func(state any) any {
			s, ok := state.(CounterState)
			if !ok {
				return PublicCounter{}
			}
			return PublicCounter{Label: s.Label, Value: s.Value}
		},
	}
}
