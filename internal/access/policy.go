// Package access derives permission decisions and query scopes from a
// verified identity. Every handler routes its authorization question through
// the table below instead of branching on role strings inline.
package access

import (
	"errors"

	"github.com/devang127/lead-management/internal/auth"
)

// ErrForbidden indicates the caller is authenticated but the role or
// ownership check failed.
var ErrForbidden = errors.New("access: forbidden")

// Operation classifies every gated action the API exposes.
type Operation int

const (
	OpLeadList Operation = iota
	OpLeadCreate
	OpLeadUpdate
	OpLeadDelete
	OpLeadExport
	OpLeadTags
	OpUserList
	OpUserManage
	OpActivityLogRead
	OpDashboardStats
)

func (op Operation) String() string {
	switch op {
	case OpLeadList:
		return "lead.list"
	case OpLeadCreate:
		return "lead.create"
	case OpLeadUpdate:
		return "lead.update"
	case OpLeadDelete:
		return "lead.delete"
	case OpLeadExport:
		return "lead.export"
	case OpLeadTags:
		return "lead.tags"
	case OpUserList:
		return "user.list"
	case OpUserManage:
		return "user.manage"
	case OpActivityLogRead:
		return "user.activity_logs"
	case OpDashboardStats:
		return "dashboard.stats"
	default:
		return "unknown"
	}
}

var allRoles = []auth.Role{auth.RoleSuperAdmin, auth.RoleSubAdmin, auth.RoleSupportAgent}
var adminRoles = []auth.Role{auth.RoleSuperAdmin, auth.RoleSubAdmin}

// permitted maps each operation to the roles that may perform it. A role (or
// the no-role of a self-signup token) absent from the row is denied.
var permitted = map[Operation][]auth.Role{
	OpLeadList:        allRoles,
	OpLeadCreate:      allRoles,
	OpLeadUpdate:      allRoles,
	OpLeadDelete:      adminRoles,
	OpLeadExport:      allRoles,
	OpLeadTags:        allRoles,
	OpDashboardStats:  allRoles,
	OpUserList:        adminRoles,
	OpUserManage:      {auth.RoleSuperAdmin},
	OpActivityLogRead: {auth.RoleSuperAdmin},
}

// Allowed reports whether the role may perform the operation.
func Allowed(role auth.Role, op Operation) bool {
	for _, r := range permitted[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns ErrForbidden when the role may not perform the operation.
func Require(role auth.Role, op Operation) error {
	if !Allowed(role, op) {
		return ErrForbidden
	}
	return nil
}

// Scope is the implicit query filter derived from the caller's role. It is
// combined with explicit filter parameters by logical AND and can never be
// widened by them.
type Scope struct {
	// AssigneeID restricts visible leads to those assigned to this user.
	// Empty means unrestricted.
	AssigneeID string
}

// Restricted reports whether the scope narrows the query.
func (s Scope) Restricted() bool { return s.AssigneeID != "" }

// ScopeFor derives the query scope for a caller. A support-agent only ever
// observes leads assigned to them; administrator roles are unrestricted.
func ScopeFor(id auth.Identity) Scope {
	if id.Role == auth.RoleSupportAgent {
		return Scope{AssigneeID: id.UserID}
	}
	return Scope{}
}

// CanMutateLead decides the ownership side of a lead update: a support-agent
// may mutate only a lead whose current assignee is the caller, independent of
// payload validity. Administrator roles may mutate any lead.
func CanMutateLead(id auth.Identity, assigneeID string) bool {
	if !Allowed(id.Role, OpLeadUpdate) {
		return false
	}
	if id.Role == auth.RoleSupportAgent {
		return assigneeID != "" && assigneeID == id.UserID
	}
	return true
}
