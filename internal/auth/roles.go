package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a user can hold. The zero value means the
// user has no recognized role (self-signup accounts) and fails every
// role-gated check.
type Role string

const (
	RoleNone         Role = ""
	RoleSuperAdmin   Role = "super-admin"
	RoleSubAdmin     Role = "sub-admin"
	RoleSupportAgent Role = "support-agent"
)

// ParseRole normalizes raw into one of the known roles. The empty string is
// accepted and maps to RoleNone.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleNone:
		return RoleNone, nil
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleSubAdmin:
		return RoleSubAdmin, nil
	case RoleSupportAgent:
		return RoleSupportAgent, nil
	default:
		return RoleNone, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

// Known reports whether the role is one of the three recognized roles.
func (r Role) Known() bool {
	return r == RoleSuperAdmin || r == RoleSubAdmin || r == RoleSupportAgent
}

// Admin reports whether the role is an administrator role.
func (r Role) Admin() bool {
	return r == RoleSuperAdmin || r == RoleSubAdmin
}

// Assignable reports whether an administrator may grant this role to a
// managed user. Super-admin accounts are never created through the API.
func (r Role) Assignable() bool {
	return r == RoleSubAdmin || r == RoleSupportAgent
}
