package persistence

import (
	"context"
	"time"
)

// PeriodRepository stores validity periods.
type PeriodRepository interface {
	CreatePeriod(ctx context.Context, period Period) error
	GetPeriod(ctx context.Context, id string) (Period, error)
	ListPeriods(ctx context.Context) ([]Period, error)
}

// AgentDirectory exposes read-only agent catalog lookups.
type AgentDirectory interface {
	GetAgent(ctx context.Context, id string) (Agent, error)
}

// PlanReplacement carries everything the plan store needs to replace one
// agent's rows: the validated rows to insert and the span whose overlapping
// predecessors must go. RequiredUnitID, when set, is re-checked against the
// agent's freshly read unit inside the transaction.
type PlanReplacement struct {
	AgentID        string
	SpanFrom       time.Time
	SpanTo         time.Time
	PeriodID       *string
	RequiredUnitID *string
	Rows           []PlanRow
}

// PlanFilter narrows plan queries.
type PlanFilter struct {
	PeriodID *string
	From     *time.Time
	To       *time.Time
	UnitID   *string
	AgentID  *string
	GroupID  *string
}

// PlanRepository stores plan rows. ReplacePlans must apply every replacement
// inside a single transaction: any failure leaves no agent modified.
type PlanRepository interface {
	ReplacePlans(ctx context.Context, replacements []PlanReplacement) error
	ListPlans(ctx context.Context, filter PlanFilter) ([]ProjectedPlanRow, error)
}

// AuditRepository appends audit trail events. Writes are best-effort from the
// caller's perspective; the append itself is still expected to be durable.
type AuditRepository interface {
	AppendEvent(ctx context.Context, event AuditEvent) error
}
