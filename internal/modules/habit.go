package modules

import (
	"time"

	"boardkit/internal/domain"
)

// ModuleHabit is a daily habit tracker. It provides ContractHabit.
const ModuleHabit = "habit"

// ContractHabit is the public payload contract for habit trackers.
const ContractHabit = "boardkit.habit.v1"

const habitDateLayout = "2006-01-02"

type HabitState struct {
	Name string `json:"name"`
	// Days holds the dates the habit was checked, as YYYY-MM-DD strings.
	Days []string `json:"days"`
}

type PublicHabit struct {
	Name         string `json:"name"`
	Streak       int    `json:"streak"`
	CheckedToday bool   `json:"checkedToday"`
}

// ProjectHabit computes the streak relative to now: consecutive checked days
// ending today or yesterday.
func ProjectHabit(state HabitState, now time.Time) PublicHabit {
	checked := make(map[string]bool, len(state.Days))
	for _, d := range state.Days {
		checked[d] = true
	}

	today := now.Format(habitDateLayout)
	pub := PublicHabit{Name: state.Name, CheckedToday: checked[today]}

	day := now
	if !pub.CheckedToday {
		day = day.AddDate(0, 0, -1)
	}
	for checked[day.Format(habitDateLayout)] {
		pub.Streak++
		day = day.AddDate(0, 0, -1)
	}
	return pub
}

func habitDefinition() moduleEntry {
	def := baseDefinition(ModuleHabit, "Habit Tracker", 220, 160)
	jsonState(&def, func() HabitState {
		return HabitState{Name: "Habit"}
	})
	return moduleEntry{
		Definition: def,
		Contracts: []domain.DataContract{{
			ID:          ContractHabit,
			Name:        "Habit",
			Description: "Current streak and today's status of a habit",
			Version:     "1.0.0",
			ProviderID:  ModuleHabit,
		}},
		Project: func(state any) any {
			s, ok := state.(HabitState)
			if !ok {
				return PublicHabit{}
			}
			return ProjectHabit(s, time.Now())
		},
	}
}
