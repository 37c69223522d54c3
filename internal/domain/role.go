package domain

import "fmt"

// Role is the closed set of directory roles.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleHR       Role = "HR"
	RoleAdmin    Role = "Admin"
)

var roles = map[Role]struct{}{
	RoleEmployee: {},
	RoleManager:  {},
	RoleHR:       {},
	RoleAdmin:    {},
}

// ParseRole returns ErrInvalidArgument for anything outside the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roles[r]; !ok {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrInvalidArgument)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

// HasAnyRole reports whether u holds one of roles. A nil user holds none.
func HasAnyRole(u *User, roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
