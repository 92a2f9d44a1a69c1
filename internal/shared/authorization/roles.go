package authorization

// Role is a staff member's role inside the engine. It is sourced from the staff profile,
// the token claim only gates routes.
type Role string

const (
	RoleStaff      Role = "staff"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleStaff, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanOverride reports whether the role may bypass automatic routing.
func (r Role) CanOverride() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

// ParseRole falls back to RoleStaff for unknown input, the least privileged role.
func ParseRole(s string) Role {
	if r := Role(s); r.IsValid() {
		return r
	}
	return RoleStaff
}
