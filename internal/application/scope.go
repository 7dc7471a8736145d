package application

import "github.com/example/rest-planning/internal/persistence"

// allowedToPlan decides whether the caller may modify the target agent's
// plan. The decision table covers every member of the closed role
// enumeration; anything else, or a missing group/unit on either side, denies.
func allowedToPlan(caller Principal, agent persistence.Agent) bool {
	switch caller.Role {
	case RoleSuperAdmin, RoleSupervisor:
		return true
	case RoleAgent:
		return caller.AgentID != "" && caller.AgentID == agent.ID
	case RoleGroupLeader:
		return caller.GroupID != "" && agent.GroupID != nil && *agent.GroupID == caller.GroupID
	case RoleUnitLeader:
		return caller.UnitID != "" && agent.UnitID != nil && *agent.UnitID == caller.UnitID
	default:
		return false
	}
}

// canManagePeriods reports whether the caller may create validity periods.
// Only the full-access tiers qualify.
func canManagePeriods(caller Principal) bool {
	switch caller.Role {
	case RoleSuperAdmin, RoleSupervisor:
		return true
	default:
		return false
	}
}
