package modules

import (
	"encoding/json"

	"boardkit/internal/domain"
)

// jsonState fills a ModuleDefinition's state hooks for a concrete state type:
// NewState returns a zero value seeded by newFn, Decode/Encode go through JSON.
func jsonState[T any](def *domain.ModuleDefinition, newFn func() T) {
	def.NewState = func() any { return newFn() }
	def.DecodeState = func(raw []byte) (any, error) {
		var state T
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, err
		}
		return state, nil
	}
	def.EncodeState = func(state any) ([]byte, error) {
		return json.Marshal(state)
	}
}
