package models

import "strings"

// Role is the access level of an acting user.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	default:
		return "member"
	}
}

// IsAdmin reports whether r grants admin-only mutations.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Actor is the identity performing an operation, resolved once at the
// request boundary and passed explicitly into ledger operations.
type Actor struct {
	UserID string
	Role   Role
}

// ParseRole resolves a stored or claimed role string. Matching is
// case-insensitive and accepts both "admin" and "role_admin"; anything
// else is RoleMember.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "role_admin":
		return RoleAdmin
	default:
		return RoleMember
	}
}
