package application

import (
	"strings"
	"time"

	"github.com/example/rest-planning/internal/dateutil"
	"github.com/example/rest-planning/internal/interval"
)

// Role is the closed enumeration of caller roles recognized by the scope
// authorizer. Unknown role strings never authorize anything.
type Role string

const (
	// RoleSuperAdmin has full planning scope over every agent.
	RoleSuperAdmin Role = "superadmin"
	// RoleSupervisor has full planning scope over every agent.
	RoleSupervisor Role = "supervisor"
	// RoleGroupLeader may plan agents belonging to the caller's group.
	RoleGroupLeader Role = "group_leader"
	// RoleUnitLeader may plan agents belonging to the caller's unit.
	RoleUnitLeader Role = "unit_leader"
	// RoleAgent may plan only the caller's own agent record.
	RoleAgent Role = "agent"
)

// ParseRole maps a raw claim value onto the closed role enumeration.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	case RoleSupervisor:
		return RoleSupervisor, true
	case RoleGroupLeader:
		return RoleGroupLeader, true
	case RoleUnitLeader:
		return RoleUnitLeader, true
	case RoleAgent:
		return RoleAgent, true
	}
	return "", false
}

// Principal represents the already-authenticated caller invoking a service
// method, as extracted from the bearer token claims.
type Principal struct {
	Subject string
	Role    Role
	AgentID string
	GroupID string
	UnitID  string
}

// PeriodInput captures caller provided validity period fields.
type PeriodInput struct {
	Name string
	From string
	To   string
}

// Period represents a persisted validity period ("vigencia").
type Period struct {
	ID        string
	Name      string
	From      dateutil.Date
	To        dateutil.Date
	CreatedBy string
	CreatedAt time.Time
}

// RangeSelector identifies the global date range of a request: either a
// validity period id or an explicit from/to pair.
type RangeSelector struct {
	PeriodID string
	From     string
	To       string
}

// BulkItem carries the raw segments submitted for one agent.
type BulkItem struct {
	AgentID  string
	Segments []interval.RawSegment
}

// BulkInput is one bulk plan submission.
type BulkInput struct {
	Selector RangeSelector
	Items    []BulkItem
}

// BulkResult summarizes a committed bulk submission.
type BulkResult struct {
	PeriodID *string
	Range    interval.Range
	Agents   int
	Rows     int
}

// QueryParams narrows a plan query. Role-based scoping is applied on top of
// the optional filters.
type QueryParams struct {
	Selector RangeSelector
	UnitID   string
	AgentID  string
}

// PlanRowView is one projected plan row ready for display, nickname
// decrypted.
type PlanRowView struct {
	ID            string
	AgentID       string
	AgentCode     string
	AgentNickname string
	UnitID        string
	UnitName      string
	From          dateutil.Date
	To            dateutil.Date
	State         string
	DestGroupID   *string
	DestGroupName *string
	DestUnitID    *string
	DestUnitName  *string
	PeriodID      *string
	CreatedBy     string
}
