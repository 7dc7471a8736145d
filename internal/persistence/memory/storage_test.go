package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/rest-planning/internal/persistence"
	"github.com/example/rest-planning/internal/testfixtures"
)

func day(d int) time.Time {
	return time.Date(2025, time.December, d, 0, 0, 0, 0, time.UTC)
}

func seededStorage() (*Storage, persistence.Agent, persistence.Agent) {
	store := NewStorage()
	unit := testfixtures.NewUnitFixture()
	group := testfixtures.NewGroupFixture()
	store.PutUnit(unit)
	store.PutGroup(group)

	assigned := testfixtures.NewAgentFixture(
		testfixtures.WithAgentUnit(unit.ID),
		testfixtures.WithAgentGroup(group.ID),
	)
	unassigned := testfixtures.NewAgentFixture()
	store.PutAgent(assigned)
	store.PutAgent(unassigned)

	return store, assigned, unassigned
}

func row(id, agentID string, from, to int) persistence.PlanRow {
	return persistence.PlanRow{
		ID:        id,
		AgentID:   agentID,
		From:      day(from),
		To:        day(to),
		State:     "SERVICIO",
		CreatedBy: "boss",
		CreatedAt: testfixtures.ReferenceTime(),
	}
}

func TestReplacePlansIsAllOrNothing(t *testing.T) {
	t.Parallel()

	store, assigned, unassigned := seededStorage()
	ctx := context.Background()

	if err := store.ReplacePlans(ctx, []persistence.PlanReplacement{{
		AgentID:  assigned.ID,
		SpanFrom: day(1),
		SpanTo:   day(25),
		Rows:     []persistence.PlanRow{row("row-1", assigned.ID, 1, 25)},
	}}); err != nil {
		t.Fatalf("seed replace failed: %v", err)
	}

	err := store.ReplacePlans(ctx, []persistence.PlanReplacement{
		{
			AgentID:  assigned.ID,
			SpanFrom: day(1),
			SpanTo:   day(25),
			Rows:     []persistence.PlanRow{row("row-2", assigned.ID, 1, 25)},
		},
		{
			AgentID:  unassigned.ID,
			SpanFrom: day(1),
			SpanTo:   day(25),
			Rows:     []persistence.PlanRow{row("row-3", unassigned.ID, 1, 25)},
		},
	})

	var unitErr *persistence.UnassignedUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("expected UnassignedUnitError, got %v", err)
	}

	rows := store.PlanRowsForAgent(assigned.ID)
	if len(rows) != 1 || rows[0].ID != "row-1" {
		t.Fatalf("failed batch mutated storage: %+v", rows)
	}
}

func TestReplacePlansDenormalizesFreshUnit(t *testing.T) {
	t.Parallel()

	store, assigned, _ := seededStorage()
	ctx := context.Background()

	// The caller-supplied row carries a stale unit; storage must overwrite
	// it with the agent's current assignment.
	stale := row("row-1", assigned.ID, 1, 25)
	stale.UnitID = "stale-unit"

	if err := store.ReplacePlans(ctx, []persistence.PlanReplacement{{
		AgentID:  assigned.ID,
		SpanFrom: day(1),
		SpanTo:   day(25),
		Rows:     []persistence.PlanRow{stale},
	}}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	rows := store.PlanRowsForAgent(assigned.ID)
	if len(rows) != 1 || rows[0].UnitID != *assigned.UnitID {
		t.Fatalf("unit not denormalized: %+v", rows)
	}
}

func TestReplacePlansHonorsRequiredUnit(t *testing.T) {
	t.Parallel()

	store, assigned, _ := seededStorage()
	other := "some-other-unit"

	err := store.ReplacePlans(context.Background(), []persistence.PlanReplacement{{
		AgentID:        assigned.ID,
		SpanFrom:       day(1),
		SpanTo:         day(25),
		RequiredUnitID: &other,
		Rows:           []persistence.PlanRow{row("row-1", assigned.ID, 1, 25)},
	}})

	var mismatch *persistence.UnitMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected UnitMismatchError, got %v", err)
	}
}

func TestListPlansGroupFilterFollowsAgentCatalog(t *testing.T) {
	t.Parallel()

	store, assigned, _ := seededStorage()
	ctx := context.Background()

	if err := store.ReplacePlans(ctx, []persistence.PlanReplacement{{
		AgentID:  assigned.ID,
		SpanFrom: day(1),
		SpanTo:   day(25),
		Rows:     []persistence.PlanRow{row("row-1", assigned.ID, 1, 25)},
	}}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	rows, err := store.ListPlans(ctx, persistence.PlanFilter{GroupID: assigned.GroupID})
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for the agent's group, got %d", len(rows))
	}

	otherGroup := "group-without-members"
	rows, err = store.ListPlans(ctx, persistence.PlanFilter{GroupID: &otherGroup})
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows for an empty group, got %d", len(rows))
	}
}
