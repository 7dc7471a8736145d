// Package testfixtures supplies deterministic clocks, identifier generators
// and catalog fixtures shared by the service and persistence tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/rest-planning/internal/persistence"
)

var (
	agentCounter  uint64
	unitCounter   uint64
	groupCounter  uint64
	periodCounter uint64
)

var referenceTime = time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Agent fixtures -----------------------------

// AgentOption configures the generated agent fixture.
type AgentOption func(*persistence.Agent)

// NewAgentFixture returns a deterministic agent catalog record with optional
// overrides. The nickname holds a plaintext placeholder; tests that exercise
// decryption seed an encrypted value instead.
func NewAgentFixture(opts ...AgentOption) persistence.Agent {
	idx := atomic.AddUint64(&agentCounter, 1)
	fixture := persistence.Agent{
		ID:       fmt.Sprintf("agent-%03d", idx),
		Code:     fmt.Sprintf("A%03d", idx),
		Nickname: fmt.Sprintf("nickname-%03d", idx),
		Category: "operations",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAgentID overrides the generated agent ID.
func WithAgentID(id string) AgentOption {
	return func(a *persistence.Agent) {
		a.ID = id
	}
}

// WithAgentUnit assigns the agent to a unit.
func WithAgentUnit(unitID string) AgentOption {
	return func(a *persistence.Agent) {
		a.UnitID = &unitID
	}
}

// WithAgentGroup assigns the agent to a group.
func WithAgentGroup(groupID string) AgentOption {
	return func(a *persistence.Agent) {
		a.GroupID = &groupID
	}
}

// WithAgentNickname overrides the stored nickname value.
func WithAgentNickname(nickname string) AgentOption {
	return func(a *persistence.Agent) {
		a.Nickname = nickname
	}
}

// ----------------------------- Unit fixtures ------------------------------

// NewUnitFixture returns a deterministic unit catalog record.
func NewUnitFixture() persistence.Unit {
	idx := atomic.AddUint64(&unitCounter, 1)
	return persistence.Unit{
		ID:   fmt.Sprintf("unit-%03d", idx),
		Name: fmt.Sprintf("Unit %03d", idx),
	}
}

// ----------------------------- Group fixtures -----------------------------

// NewGroupFixture returns a deterministic group catalog record.
func NewGroupFixture() persistence.Group {
	idx := atomic.AddUint64(&groupCounter, 1)
	return persistence.Group{
		ID:   fmt.Sprintf("group-%03d", idx),
		Name: fmt.Sprintf("Group %03d", idx),
	}
}

// ----------------------------- Period fixtures ----------------------------

// PeriodOption configures the generated period fixture.
type PeriodOption func(*persistence.Period)

// NewPeriodFixture returns a deterministic validity period covering one month
// starting at the reference time, with optional overrides.
func NewPeriodFixture(opts ...PeriodOption) persistence.Period {
	idx := atomic.AddUint64(&periodCounter, 1)
	from := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	fixture := persistence.Period{
		ID:        fmt.Sprintf("period-%03d", idx),
		Name:      fmt.Sprintf("VIGENCIA %03d", idx),
		From:      from,
		To:        from.AddDate(0, 0, 24),
		CreatedBy: "fixtures",
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithPeriodID overrides the generated period ID.
func WithPeriodID(id string) PeriodOption {
	return func(p *persistence.Period) {
		p.ID = id
	}
}

// WithPeriodRange overrides the period date range.
func WithPeriodRange(from, to time.Time) PeriodOption {
	return func(p *persistence.Period) {
		p.From = from
		p.To = to
	}
}
