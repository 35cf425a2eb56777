package enum

import "strings"

// Role is the operator role kept in storage under the "role" key.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleTeacher    Role = "teacher"
)

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleAccountant, RoleTeacher:
		return r, true
	}
	return "", false
}

// CanCollect reports whether the role may take payments.
func (r Role) CanCollect() bool {
	return r == RoleAdmin || r == RoleAccountant
}
