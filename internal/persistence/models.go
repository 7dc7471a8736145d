package persistence

import "time"

// Period represents a named administrative validity range ("vigencia").
type Period struct {
	ID        string
	Name      string
	From      time.Time
	To        time.Time
	CreatedBy string
	CreatedAt time.Time
}

// PlanRow is one persisted rest/duty assignment for an agent. Rows belonging
// to the same agent and scope are kept mutually non-overlapping by the
// replace operation, not by a stored constraint.
type PlanRow struct {
	ID          string
	AgentID     string
	UnitID      string
	From        time.Time
	To          time.Time
	State       string
	DestGroupID *string
	DestUnitID  *string
	CreatedBy   string
	PeriodID    *string
	CreatedAt   time.Time
}

// Agent is a read-only catalog record. Nickname holds the encrypted display
// name; decryption happens in the application layer on the way out.
type Agent struct {
	ID       string
	Code     string
	Nickname string
	GroupID  *string
	UnitID   *string
	Category string
}

// Unit is a read-only organizational unit catalog record.
type Unit struct {
	ID   string
	Name string
}

// Group is a read-only group catalog record.
type Group struct {
	ID   string
	Name string
}

// AuditEvent records one administrative action for the audit trail.
type AuditEvent struct {
	ID         string
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}

// ProjectedPlanRow is a stored plan row joined with its display data.
type ProjectedPlanRow struct {
	PlanRow
	AgentCode     string
	AgentNickname string
	UnitName      string
	DestGroupName *string
	DestUnitName  *string
}
