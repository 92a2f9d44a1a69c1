package permission

import (
	"fmt"

	"github.com/recordsdesk/triage/internal/shared/authorization"
)

// RoleHierarchy maps each role to the role whose grants it inherits.
var RoleHierarchy = map[authorization.Role]authorization.Role{
	authorization.RoleSupervisor: authorization.RoleStaff,
	authorization.RoleAdmin:      authorization.RoleSupervisor,
}

// SyncRoleHierarchy writes the g rules for RoleHierarchy into casbin.
func SyncRoleHierarchy(e *Enforcer) error {
	for role, parent := range RoleHierarchy {
		if err := e.AddRoleInheritance(role.String(), parent.String()); err != nil {
			return fmt.Errorf("failed to sync role %s: %w", role, err)
		}
	}
	return nil
}
