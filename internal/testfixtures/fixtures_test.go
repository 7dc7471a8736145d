package testfixtures

import (
	"context"
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	clock.Set(start.Add(2 * time.Hour))
	if got := clock.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
	}
}

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("plan")

	first := gen.Next()
	second := gen.Next()

	if first != "plan-1" || second != "plan-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestAgentFixtureOverrides(t *testing.T) {
	agent := NewAgentFixture(
		WithAgentID("agent-x"),
		WithAgentUnit("unit-x"),
		WithAgentGroup("group-x"),
		WithAgentNickname("Halcón"),
	)

	if agent.ID != "agent-x" || agent.Nickname != "Halcón" {
		t.Fatalf("overrides not applied: %+v", agent)
	}
	if agent.UnitID == nil || *agent.UnitID != "unit-x" {
		t.Fatalf("unit override not applied: %+v", agent)
	}
	if agent.GroupID == nil || *agent.GroupID != "group-x" {
		t.Fatalf("group override not applied: %+v", agent)
	}
}

func TestAgentFixturesAreDistinct(t *testing.T) {
	a := NewAgentFixture()
	b := NewAgentFixture()
	if a.ID == b.ID || a.Code == b.Code {
		t.Fatalf("fixtures collide: %+v vs %+v", a, b)
	}
}

func TestPeriodFixtureDefaultsAreValid(t *testing.T) {
	period := NewPeriodFixture()
	if period.To.Before(period.From) {
		t.Fatalf("fixture range inverted: %+v", period)
	}
}

func TestSQLiteHarnessRoundTrip(t *testing.T) {
	harness := NewSQLiteHarness(t)
	ctx := context.Background()

	period := NewPeriodFixture()
	if err := harness.Periods.CreatePeriod(ctx, period); err != nil {
		t.Fatalf("CreatePeriod failed: %v", err)
	}

	got, err := harness.Periods.GetPeriod(ctx, period.ID)
	if err != nil {
		t.Fatalf("GetPeriod failed: %v", err)
	}
	if got.Name != period.Name {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, period)
	}
}
