package modules

import "boardkit/internal/domain"

// ModuleTaskRadar aggregates several todo lists into one overview. It is a
// multi-select consumer of ContractTodoList and provides nothing itself.
const ModuleTaskRadar = "taskradar"

type TaskRadarState struct {
	// SourceIDs are the provider widget ids this radar is connected to.
	SourceIDs []string `json:"sourceIds"`
}

func taskRadarDefinition() moduleEntry {
	def := baseDefinition(ModuleTaskRadar, "Task Radar", 320, 240)
	jsonState(&def, func() TaskRadarState {
		return TaskRadarState{}
	})
	return moduleEntry{
		Definition: def,
		Consumers: []domain.ConsumerDefinition{{
			ModuleID:    ModuleTaskRadar,
			ContractID:  ContractTodoList,
			MultiSelect: true,
			StateKey:    "sourceIds",
			SourceLabel: "Todo lists",
		}},
	}
}
