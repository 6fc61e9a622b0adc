package models

import (
	"fmt"
	"strings"
)

// Role is a member's permission level within a single trip.
// The ordering is VIEWER < EDITOR < OWNER.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// ParseRole validates a wire-format role string. Matching is
// case-insensitive; the canonical uppercase form is returned.
func ParseRole(s string) (Role, error) {
	switch role := Role(strings.ToUpper(s)); role {
	case RoleOwner, RoleEditor, RoleViewer:
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Allows reports whether a member holding this role may perform an
// operation that requires the given role:
//
//   - required OWNER:  only OWNER
//   - required EDITOR: OWNER or EDITOR
//   - required VIEWER: any member
func (r Role) Allows(required Role) bool {
	switch required {
	case RoleOwner:
		return r == RoleOwner
	case RoleEditor:
		return r == RoleOwner || r == RoleEditor
	default:
		return true
	}
}

// GlobalRole is a user's account-wide role, unrelated to trip roles.
type GlobalRole string

const (
	GlobalRoleUser  GlobalRole = "USER"
	GlobalRoleAdmin GlobalRole = "ADMIN"
)
