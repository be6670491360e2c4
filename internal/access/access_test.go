package access_test

import (
	"testing"

	"boardkit/internal/access"
	"boardkit/internal/domain"
	"boardkit/internal/registry"
)

func fixtureWidgets() []domain.Widget {
	return []domain.Widget{
		{ID: "todo-1", ModuleID: "todo"},
		{ID: "todo-2", ModuleID: "todo"},
		{ID: "radar-1", ModuleID: "taskradar"},
	}
}

func fixtureContracts(t *testing.T) *registry.ContractRegistry {
	t.Helper()
	r := registry.NewContractRegistry()
	if err := r.Register(domain.DataContract{
		ID: "boardkit.todo.v1", Name: "Todo List", Version: "1.0.0", ProviderID: "todo",
	}); err != nil {
		t.Fatalf("register contract: %v", err)
	}
	return r
}

// ─────────────────────────────────────────────────────────────
// Check / Status
// ─────────────────────────────────────────────────────────────

func TestCheck_ExactTripleOnly(t *testing.T) {
	perms := []domain.DataPermission{
		access.NewPermission("radar-1", "todo-1", "boardkit.todo.v1"),
	}

	if !access.Check(perms, "radar-1", "todo-1", "boardkit.todo.v1") {
		t.Fatal("expected exact triple to pass")
	}
	if access.Check(perms, "radar-1", "todo-2", "boardkit.todo.v1") {
		t.Fatal("different provider must not pass")
	}
	if access.Check(perms, "radar-1", "todo-1", "boardkit.counter.v1") {
		t.Fatal("different contract must not pass")
	}
	if access.Check(nil, "radar-1", "todo-1", "boardkit.todo.v1") {
		t.Fatal("empty permission list must not pass")
	}
}

func TestStatus_TruthTable(t *testing.T) {
	widgets := fixtureWidgets()
	perm := access.NewPermission("radar-1", "todo-1", "boardkit.todo.v1")

	cases := []struct {
		name     string
		perms    []domain.DataPermission
		provider string
		want     domain.ConnectionStatus
	}{
		{"permission and live provider", []domain.DataPermission{perm}, "todo-1", domain.StatusConnected},
		{"no permission", nil, "todo-1", domain.StatusDisconnected},
		{"provider gone with permission", []domain.DataPermission{perm}, "todo-gone", domain.StatusBroken},
		{"provider gone without permission", nil, "todo-gone", domain.StatusBroken},
	}

	for _, tc := range cases {
		got := access.Status(tc.perms, widgets, "radar-1", tc.provider, "boardkit.todo.v1")
		if got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestStatus_FlipsWithGrant(t *testing.T) {
	widgets := fixtureWidgets()
	var perms []domain.DataPermission

	if got := access.Status(perms, widgets, "radar-1", "todo-1", "boardkit.todo.v1"); got != domain.StatusDisconnected {
		t.Fatalf("before grant: expected disconnected, got %s", got)
	}

	perms = append(perms, access.NewPermission("radar-1", "todo-1", "boardkit.todo.v1"))
	if got := access.Status(perms, widgets, "radar-1", "todo-1", "boardkit.todo.v1"); got != domain.StatusConnected {
		t.Fatalf("after grant: expected connected, got %s", got)
	}

	perms = perms[:0]
	if got := access.Status(perms, widgets, "radar-1", "todo-1", "boardkit.todo.v1"); got != domain.StatusDisconnected {
		t.Fatalf("after revoke: expected disconnected, got %s", got)
	}
}

// ─────────────────────────────────────────────────────────────
// Permissions
// ─────────────────────────────────────────────────────────────

func TestNewPermission_Defaults(t *testing.T) {
	p := access.NewPermission("radar-1", "todo-1", "boardkit.todo.v1")

	if p.ID == "" {
		t.Fatal("expected generated id")
	}
	if p.Scope != domain.PermissionScopeRead {
		t.Fatalf("expected read scope, got %s", p.Scope)
	}
	if p.GrantedAt.IsZero() {
		t.Fatal("expected GrantedAt to be set")
	}

	link := access.LinkFor(p)
	if link.ConsumerWidgetID != "radar-1" || link.ProviderWidgetID != "todo-1" || link.ContractID != "boardkit.todo.v1" {
		t.Fatalf("link does not mirror permission: %+v", link)
	}
}

func TestConsumerAndProviderPermissions(t *testing.T) {
	perms := []domain.DataPermission{
		access.NewPermission("radar-1", "todo-1", "boardkit.todo.v1"),
		access.NewPermission("radar-1", "todo-2", "boardkit.todo.v1"),
		access.NewPermission("cal-1", "todo-1", "boardkit.todo.v1"),
	}

	if got := access.ConsumerPermissions(perms, "radar-1"); len(got) != 2 {
		t.Fatalf("expected 2 consumer permissions, got %d", len(got))
	}
	if got := access.ProviderPermissions(perms, "todo-1"); len(got) != 2 {
		t.Fatalf("expected 2 provider permissions, got %d", len(got))
	}
}

// ─────────────────────────────────────────────────────────────
// Provider eligibility
// ─────────────────────────────────────────────────────────────

func TestAvailableProviders(t *testing.T) {
	contracts := fixtureContracts(t)
	widgets := fixtureWidgets()

	providers := access.AvailableProviders(contracts, widgets, "boardkit.todo.v1")
	if len(providers) != 2 {
		t.Fatalf("expected the two todo widgets, got %d", len(providers))
	}

	if got := access.AvailableProviders(contracts, widgets, "boardkit.unknown.v1"); got != nil {
		t.Fatalf("unknown contract must yield empty list, got %v", got)
	}
}

func TestCanProvide(t *testing.T) {
	contracts := fixtureContracts(t)
	widgets := fixtureWidgets()

	if !access.CanProvide(contracts, widgets, "todo-1", "boardkit.todo.v1") {
		t.Fatal("todo widget must be able to provide the todo contract")
	}
	if access.CanProvide(contracts, widgets, "radar-1", "boardkit.todo.v1") {
		t.Fatal("radar widget must not provide the todo contract")
	}
	if access.CanProvide(contracts, widgets, "missing", "boardkit.todo.v1") {
		t.Fatal("missing widget must not provide")
	}
	if access.CanProvide(contracts, widgets, "todo-1", "boardkit.unknown.v1") {
		t.Fatal("unknown contract must not be providable")
	}
}
