package access

import (
	"testing"

	"github.com/devang127/lead-management/internal/auth"
)

func TestPermissionTable(t *testing.T) {
	cases := []struct {
		role auth.Role
		op   Operation
		want bool
	}{
		{auth.RoleSuperAdmin, OpLeadDelete, true},
		{auth.RoleSubAdmin, OpLeadDelete, true},
		{auth.RoleSupportAgent, OpLeadDelete, false},

		{auth.RoleSupportAgent, OpLeadList, true},
		{auth.RoleSupportAgent, OpLeadCreate, true},
		{auth.RoleSupportAgent, OpLeadUpdate, true},
		{auth.RoleSupportAgent, OpLeadExport, true},
		{auth.RoleSupportAgent, OpLeadTags, true},
		{auth.RoleSupportAgent, OpDashboardStats, true},

		{auth.RoleSuperAdmin, OpUserManage, true},
		{auth.RoleSubAdmin, OpUserManage, false},
		{auth.RoleSupportAgent, OpUserManage, false},

		{auth.RoleSuperAdmin, OpUserList, true},
		{auth.RoleSubAdmin, OpUserList, true},
		{auth.RoleSupportAgent, OpUserList, false},

		{auth.RoleSuperAdmin, OpActivityLogRead, true},
		{auth.RoleSubAdmin, OpActivityLogRead, false},

		// A self-signup token carries no role and is denied everywhere.
		{auth.RoleNone, OpLeadList, false},
		{auth.RoleNone, OpLeadCreate, false},
		{auth.RoleNone, OpDashboardStats, false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.op); got != tc.want {
			t.Fatalf("Allowed(%q, %s)=%v, want %v", tc.role, tc.op, got, tc.want)
		}
	}
}

func TestRequire(t *testing.T) {
	if err := Require(auth.RoleSupportAgent, OpLeadDelete); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := Require(auth.RoleSuperAdmin, OpLeadDelete); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScopeFor(t *testing.T) {
	agent := auth.Identity{UserID: "agent-1", Role: auth.RoleSupportAgent}
	scope := ScopeFor(agent)
	if !scope.Restricted() || scope.AssigneeID != "agent-1" {
		t.Fatalf("support-agent scope not restricted to caller: %+v", scope)
	}

	for _, role := range []auth.Role{auth.RoleSuperAdmin, auth.RoleSubAdmin} {
		scope := ScopeFor(auth.Identity{UserID: "admin-1", Role: role})
		if scope.Restricted() {
			t.Fatalf("%s scope unexpectedly restricted: %+v", role, scope)
		}
	}
}

func TestCanMutateLead(t *testing.T) {
	agent := auth.Identity{UserID: "agent-1", Role: auth.RoleSupportAgent}
	if !CanMutateLead(agent, "agent-1") {
		t.Fatal("agent denied on own lead")
	}
	if CanMutateLead(agent, "agent-2") {
		t.Fatal("agent allowed on another agent's lead")
	}
	if CanMutateLead(agent, "") {
		t.Fatal("agent allowed on unassigned lead")
	}

	admin := auth.Identity{UserID: "admin-1", Role: auth.RoleSubAdmin}
	if !CanMutateLead(admin, "agent-2") || !CanMutateLead(admin, "") {
		t.Fatal("admin should mutate any lead")
	}

	nobody := auth.Identity{UserID: "u-1", Role: auth.RoleNone}
	if CanMutateLead(nobody, "u-1") {
		t.Fatal("role-less token must be denied")
	}
}
