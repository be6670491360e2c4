package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"boardkit/internal/domain"
	"boardkit/internal/modules"
	"boardkit/internal/service"
)

func radarDef() domain.ConsumerDefinition {
	return domain.ConsumerDefinition{
		ModuleID: "taskradar", ContractID: todoContract, MultiSelect: true, StateKey: "sourceIds",
	}
}

// ─────────────────────────────────────────────────────────────
// ProviderIDsFromState
// ─────────────────────────────────────────────────────────────

func TestProviderIDsFromState(t *testing.T) {
	def := radarDef()

	if got := service.ProviderIDsFromState(nil, def); got != nil {
		t.Fatalf("nil state: expected nil, got %v", got)
	}
	if got := service.ProviderIDsFromState(json.RawMessage(`{"sourceIds": ["a", "b"]}`), def); len(got) != 2 {
		t.Fatalf("array stateKey: expected 2 ids, got %v", got)
	}
	if got := service.ProviderIDsFromState(json.RawMessage(`{"sourceIds": "solo"}`), def); len(got) != 1 || got[0] != "solo" {
		t.Fatalf("string stateKey: expected [solo], got %v", got)
	}
	if got := service.ProviderIDsFromState(json.RawMessage(`{"sourceIds": ["a", 7, ""]}`), def); len(got) != 1 {
		t.Fatalf("junk entries must be dropped, got %v", got)
	}
	if got := service.ProviderIDsFromState(json.RawMessage(`{"other": "x"}`), def); got != nil {
		t.Fatalf("missing stateKey: expected nil, got %v", got)
	}
}

// ─────────────────────────────────────────────────────────────
// ConsumerBinding
// ─────────────────────────────────────────────────────────────

func TestConsumerBinding_SubscribesOnlyPermittedDeclaredSources(t *testing.T) {
	sharing, _, b, _ := newSharingFixture(t)
	doc := docWithWidgets(
		domain.Widget{ID: "todo-1", ModuleID: "todo"},
		domain.Widget{ID: "todo-2", ModuleID: "todo"},
		domain.Widget{ID: "radar-1", ModuleID: "taskradar"},
	)
	// Radar declares both, but only todo-1 is granted.
	doc.Modules["radar-1"] = json.RawMessage(`{"sourceIds": ["todo-1", "todo-2"]}`)
	sharing.Connect(context.Background(), doc, "radar-1", "todo-1", todoContract)

	var received []string
	binding := service.NewConsumerBinding(b, radarDef(), "radar-1", func(providerID string, data any) {
		received = append(received, providerID)
	})
	defer binding.Close()
	binding.Refresh(doc)

	b.Publish("todo-1", todoContract, "one")
	b.Publish("todo-2", todoContract, "two")

	if len(received) != 1 || received[0] != "todo-1" {
		t.Fatalf("expected data only from the permitted source, got %v", received)
	}
}

func TestConsumerBinding_RefreshFollowsGrantChanges(t *testing.T) {
	sharing, _, b, _ := newSharingFixture(t)
	doc := docWithWidgets(
		domain.Widget{ID: "todo-1", ModuleID: "todo"},
		domain.Widget{ID: "radar-1", ModuleID: "taskradar"},
	)
	doc.Modules["radar-1"] = json.RawMessage(`{"sourceIds": ["todo-1"]}`)

	count := 0
	binding := service.NewConsumerBinding(b, radarDef(), "radar-1", func(string, any) { count++ })
	defer binding.Close()

	// No grant yet: declared source is ignored.
	binding.Refresh(doc)
	b.Publish("todo-1", todoContract, 1)
	if count != 0 {
		t.Fatalf("no grant: expected 0 deliveries, got %d", count)
	}

	// Grant and refresh: the cached value replays immediately.
	sharing.Connect(context.Background(), doc, "radar-1", "todo-1", todoContract)
	binding.Refresh(doc)
	if count != 1 {
		t.Fatalf("expected cached replay on subscribe, got %d", count)
	}

	// Revoke and refresh: deliveries stop.
	sharing.Disconnect(context.Background(), doc, "radar-1", "todo-1", todoContract)
	binding.Refresh(doc)
	b.Publish("todo-1", todoContract, 2)
	if count != 1 {
		t.Fatalf("after revoke: expected no further deliveries, got %d", count)
	}
}

func TestConsumerBinding_CloseIsIdempotent(t *testing.T) {
	sharing, _, b, _ := newSharingFixture(t)
	doc := docWithWidgets(
		domain.Widget{ID: "todo-1", ModuleID: "todo"},
		domain.Widget{ID: "radar-1", ModuleID: "taskradar"},
	)
	doc.Modules["radar-1"] = json.RawMessage(`{"sourceIds": ["todo-1"]}`)
	sharing.Connect(context.Background(), doc, "radar-1", "todo-1", todoContract)

	binding := service.NewConsumerBinding(b, radarDef(), "radar-1", func(string, any) {})
	binding.Refresh(doc)

	binding.Close()
	binding.Close()

	if b.HasSubscribers("todo-1", todoContract) {
		t.Fatal("subscriptions must be gone after Close")
	}
	if len(binding.Connected()) != 0 {
		t.Fatal("Connected must be empty after Close")
	}
}

// ─────────────────────────────────────────────────────────────
// End to end: todo provider → radar consumer
// ─────────────────────────────────────────────────────────────

func TestEndToEnd_TodoSummaryReachesRadar(t *testing.T) {
	sharing, _, b, _ := newSharingFixture(t)
	doc := docWithWidgets(
		domain.Widget{ID: "todo-1", ModuleID: "todo"},
		domain.Widget{ID: "radar-1", ModuleID: "taskradar"},
	)
	doc.Modules["radar-1"] = json.RawMessage(`{"sourceIds": ["todo-1"]}`)
	sharing.Connect(context.Background(), doc, "radar-1", "todo-1", todoContract)

	var got modules.PublicTodoList
	binding := service.NewConsumerBinding(b, radarDef(), "radar-1", func(_ string, data any) {
		if v, ok := data.(modules.PublicTodoList); ok {
			got = v
		}
	})
	defer binding.Close()
	binding.Refresh(doc)

	state := modules.TodoState{
		Title: "Groceries",
		Items: []modules.TodoItem{
			{ID: "1", Text: "milk", Done: true},
			{ID: "2", Text: "eggs", Done: true},
			{ID: "3", Text: "bread"},
			{ID: "4", Text: "salt"},
			{ID: "5", Text: "jam"},
		},
	}
	provider := service.NewProviderBinding(b, "todo-1", todoContract, func(s any) any {
		return modules.ProjectTodo(s.(modules.TodoState))
	})
	provider.Publish(state)

	if got.Done != 2 || got.Total != 5 {
		t.Fatalf("expected summary {done:2 total:5}, got %+v", got)
	}
	if len(got.Open) != 3 {
		t.Fatalf("expected 3 open item titles, got %v", got.Open)
	}
}

func TestMockEmitter_RecordsEvents(t *testing.T) {
	var m service.MockEmitter
	m.Emit(context.Background(), "test:event", map[string]string{"k": "v"})
	if len(m.Events) != 1 || m.Events[0].Event != "test:event" {
		t.Fatalf("expected recorded event, got %v", m.Events)
	}
}
