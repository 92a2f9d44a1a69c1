package permission

import (
	"fmt"

	"github.com/recordsdesk/triage/internal/shared/authorization"
)

// Resources and actions checked by the HTTP layer.
const (
	ResourceAssignment = "assignment"
	ResourceEscalation = "escalation"
	ResourceStaff      = "staff"
	ResourceSweep      = "sweep"

	ActionCreate      = "create"
	ActionRead        = "read"
	ActionOverride    = "override"
	ActionReassign    = "reassign"
	ActionTransition  = "transition"
	ActionWrite       = "write"
	ActionReconcile   = "reconcile"
	ActionRun         = "run"
	ActionAcknowledge = "acknowledge"
)

// Policy is one role/resource/action grant.
type Policy struct {
	Role     authorization.Role
	Resource string
	Action   string
}

// EnginePolicies lists the direct grants. Higher roles inherit lower ones through RoleHierarchy.
var EnginePolicies = []Policy{
	{authorization.RoleStaff, ResourceAssignment, ActionRead},
	{authorization.RoleStaff, ResourceAssignment, ActionTransition},
	{authorization.RoleStaff, ResourceEscalation, ActionCreate},
	{authorization.RoleStaff, ResourceEscalation, ActionRead},
	{authorization.RoleStaff, ResourceEscalation, ActionAcknowledge},
	{authorization.RoleStaff, ResourceStaff, ActionRead},

	{authorization.RoleSupervisor, ResourceAssignment, ActionCreate},
	{authorization.RoleSupervisor, ResourceAssignment, ActionOverride},
	{authorization.RoleSupervisor, ResourceAssignment, ActionReassign},
	{authorization.RoleSupervisor, ResourceSweep, ActionRun},

	{authorization.RoleAdmin, ResourceStaff, ActionWrite},
	{authorization.RoleAdmin, ResourceStaff, ActionReconcile},
}

// InitEnginePermissions installs EnginePolicies and the role hierarchy. Existing rows are left
// untouched, so it is safe to run on every start.
func InitEnginePermissions(e *Enforcer) error {
	for _, p := range EnginePolicies {
		if err := e.AddPolicy(p.Role.String(), p.Resource, p.Action); err != nil {
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p.Role, p.Resource, p.Action, err)
		}
	}

	if err := SyncRoleHierarchy(e); err != nil {
		return err
	}

	e.logger.Infow("engine permissions initialized", "policies", len(EnginePolicies))
	return nil
}
