package authorization

// CanActOnUnit reports whether an actor may manage staff of targetUnit.
// Admins manage every unit; supervisors only their own.
func CanActOnUnit(actorRole Role, actorUnit, targetUnit string) bool {
	switch actorRole {
	case RoleAdmin:
		return true
	case RoleSupervisor:
		return actorUnit != "" && actorUnit == targetUnit
	}
	return false
}
