package enums

import "fmt"

// RoleName represents a school-level permissions role.
type RoleName string

const (
	RoleAdministrator RoleName = "Administrator"
	RoleProfessor     RoleName = "Professor"
	RoleParent        RoleName = "Parent"
	RoleStudent       RoleName = "Student"
)

var validRoleNames = []RoleName{
	RoleAdministrator,
	RoleProfessor,
	RoleParent,
	RoleStudent,
}

// String implements fmt.Stringer.
func (r RoleName) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RoleName.
func (r RoleName) IsValid() bool {
	for _, candidate := range validRoleNames {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoleName converts raw input into a RoleName.
func ParseRoleName(value string) (RoleName, error) {
	for _, candidate := range validRoleNames {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role name %q", value)
}

// CanAuthenticate reports whether accounts holding the role carry credentials.
// Students have no credentials in this model; their data is reached through a
// Parent, Professor or Administrator.
func (r RoleName) CanAuthenticate() bool {
	return r != RoleStudent
}
