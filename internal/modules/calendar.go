package modules

import "boardkit/internal/domain"

// ModuleCalendar shows one habit's history on a month grid. It is a
// single-select consumer of ContractHabit.
const ModuleCalendar = "calendar"

type CalendarState struct {
	// SourceID is the habit widget this calendar follows, if any.
	SourceID string `json:"sourceId"`
	Month    string `json:"month"` // YYYY-MM, empty means current
}

func calendarDefinition() moduleEntry {
	def := baseDefinition(ModuleCalendar, "Calendar", 280, 280)
	jsonState(&def, func() CalendarState {
		return CalendarState{}
	})
	return moduleEntry{
		Definition: def,
		Consumers: []domain.ConsumerDefinition{{
			ModuleID:    ModuleCalendar,
			ContractID:  ContractHabit,
			MultiSelect: false,
			StateKey:    "sourceId",
			SourceLabel: "Habit",
		}},
	}
}
