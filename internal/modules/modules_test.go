package modules_test

import (
	"testing"
	"time"

	"boardkit/internal/modules"
	"boardkit/internal/registry"
)

// ─────────────────────────────────────────────────────────────
// Projections
// ─────────────────────────────────────────────────────────────

func TestProjectTodo(t *testing.T) {
	state := modules.TodoState{
		Title: "Chores",
		Items: []modules.TodoItem{
			{ID: "1", Text: "dishes", Done: true},
			{ID: "2", Text: "laundry"},
			{ID: "3", Text: "vacuum"},
		},
	}

	pub := modules.ProjectTodo(state)
	if pub.Title != "Chores" || pub.Done != 1 || pub.Total != 3 {
		t.Fatalf("summary wrong: %+v", pub)
	}
	if len(pub.Open) != 2 || pub.Open[0] != "laundry" {
		t.Fatalf("open items must carry text in order, got %v", pub.Open)
	}

	empty := modules.ProjectTodo(modules.TodoState{Title: "Empty"})
	if empty.Total != 0 || empty.Done != 0 || len(empty.Open) != 0 {
		t.Fatalf("empty list must project to zeros, got %+v", empty)
	}
}

func TestProjectHabit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	cases := []struct {
		name         string
		days         []string
		streak       int
		checkedToday bool
	}{
		{"empty", nil, 0, false},
		{"only today", []string{day(0)}, 1, true},
		{"run ending today", []string{day(-2), day(-1), day(0)}, 3, true},
		{"run ending yesterday still counts", []string{day(-2), day(-1)}, 2, false},
		{"gap before yesterday breaks the run", []string{day(-3), day(-1)}, 1, false},
		{"gap two days ago resets to zero", []string{day(-3), day(-2)}, 0, false},
		{"duplicates count once", []string{day(0), day(0)}, 1, true},
	}

	for _, tc := range cases {
		pub := modules.ProjectHabit(modules.HabitState{Name: "run", Days: tc.days}, now)
		if pub.Streak != tc.streak || pub.CheckedToday != tc.checkedToday {
			t.Fatalf("%s: expected streak=%d checkedToday=%v, got %+v",
				tc.name, tc.streak, tc.checkedToday, pub)
		}
	}
}

func TestProjectHabit_DoesNotMutateState(t *testing.T) {
	_, project, ok := modules.ProjectionFor(modules.ModuleHabit)
	if !ok {
		t.Fatal("habit must provide a projection")
	}

	// Days deliberately out of order: projections are pure, so the widget's
	// live slice must come back untouched.
	state := modules.HabitState{Name: "run", Days: []string{"2026-03-02", "2026-03-01"}}
	project(state)

	if state.Days[0] != "2026-03-02" || state.Days[1] != "2026-03-01" {
		t.Fatalf("projection reordered the caller's day list: %v", state.Days)
	}
}

// ─────────────────────────────────────────────────────────────
// Registration
// ─────────────────────────────────────────────────────────────

func TestRegisterBuiltins(t *testing.T) {
	contracts := registry.NewContractRegistry()
	consumers := registry.NewConsumerRegistry()
	mods := registry.NewModuleRegistry()

	if err := modules.RegisterBuiltins(contracts, consumers, mods); err != nil {
		t.Fatalf("register builtins: %v", err)
	}

	for _, id := range []string{
		modules.ModuleText, modules.ModuleTodo, modules.ModuleCounter,
		modules.ModuleHabit, modules.ModuleTaskRadar, modules.ModuleCalendar,
		modules.ModuleDataSource,
	} {
		if _, ok := mods.Get(id); !ok {
			t.Fatalf("module %s missing from catalog", id)
		}
	}
	for _, id := range []string{
		modules.ContractTodoList, modules.ContractCounter,
		modules.ContractHabit, modules.ContractTable,
	} {
		if _, ok := contracts.Get(id); !ok {
			t.Fatalf("contract %s missing", id)
		}
	}
	if defs := consumers.ByModule(modules.ModuleTaskRadar); len(defs) != 1 || !defs[0].MultiSelect {
		t.Fatalf("radar must be a multi-select consumer, got %v", defs)
	}
	if defs := consumers.ByModule(modules.ModuleCalendar); len(defs) != 1 || defs[0].MultiSelect {
		t.Fatalf("calendar must be a single-select consumer, got %v", defs)
	}

	// A second registration pass hits the duplicate guard.
	if err := modules.RegisterBuiltins(contracts, consumers, mods); err == nil {
		t.Fatal("re-registering builtins must fail loudly")
	}
}

func TestProjectionFor(t *testing.T) {
	contractID, project, ok := modules.ProjectionFor(modules.ModuleTodo)
	if !ok || contractID != modules.ContractTodoList {
		t.Fatalf("expected todo projection under %s, got %s ok=%v", modules.ContractTodoList, contractID, ok)
	}
	pub, isPub := project(modules.TodoState{Items: []modules.TodoItem{{Done: true}}}).(modules.PublicTodoList)
	if !isPub || pub.Done != 1 {
		t.Fatalf("projection output wrong: %+v", pub)
	}

	// Mistyped state degrades to the zero payload instead of panicking.
	if out := project("junk").(modules.PublicTodoList); out.Total != 0 {
		t.Fatalf("mistyped state must project to zero payload, got %+v", out)
	}

	if _, _, ok := modules.ProjectionFor(modules.ModuleText); ok {
		t.Fatal("text provides nothing")
	}
	if _, _, ok := modules.ProjectionFor("nonsense"); ok {
		t.Fatal("unknown module provides nothing")
	}
}
