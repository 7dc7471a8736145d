// Package memory provides a map-backed implementation of the persistence
// repositories. It mirrors the transactional semantics of the SQLite store
// (replace is all-or-nothing across every agent in a submission) and backs
// the application and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/rest-planning/internal/persistence"
)

// Storage holds every table in memory guarded by one mutex.
type Storage struct {
	mu      sync.RWMutex
	periods map[string]persistence.Period
	agents  map[string]persistence.Agent
	units   map[string]persistence.Unit
	groups  map[string]persistence.Group
	plans   map[string]persistence.PlanRow
	events  []persistence.AuditEvent

	// FailAppendEvent forces audit appends to fail, for testing the
	// best-effort contract.
	FailAppendEvent error
}

// NewStorage returns an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{
		periods: make(map[string]persistence.Period),
		agents:  make(map[string]persistence.Agent),
		units:   make(map[string]persistence.Unit),
		groups:  make(map[string]persistence.Group),
		plans:   make(map[string]persistence.PlanRow),
	}
}

// --- catalog seeding (read-only tables from the engine's perspective) ---

// PutAgent seeds an agent catalog record.
func (s *Storage) PutAgent(agent persistence.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[agent.ID] = agent
}

// PutUnit seeds a unit catalog record.
func (s *Storage) PutUnit(unit persistence.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[unit.ID] = unit
}

// PutGroup seeds a group catalog record.
func (s *Storage) PutGroup(group persistence.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[group.ID] = group
}

// --- PeriodRepository ---

// CreatePeriod stores a new validity period.
func (s *Storage) CreatePeriod(ctx context.Context, period persistence.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.periods[period.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.periods[period.ID] = period
	return nil
}

// GetPeriod retrieves a validity period by id.
func (s *Storage) GetPeriod(ctx context.Context, id string) (persistence.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	period, ok := s.periods[id]
	if !ok {
		return persistence.Period{}, persistence.ErrNotFound
	}
	return period, nil
}

// ListPeriods returns every period, newest first.
func (s *Storage) ListPeriods(ctx context.Context) ([]persistence.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	periods := make([]persistence.Period, 0, len(s.periods))
	for _, period := range s.periods {
		periods = append(periods, period)
	}

	sort.Slice(periods, func(i, j int) bool {
		if periods[i].CreatedAt.Equal(periods[j].CreatedAt) {
			return periods[i].ID > periods[j].ID
		}
		return periods[i].CreatedAt.After(periods[j].CreatedAt)
	})

	return periods, nil
}

// --- AgentDirectory ---

// GetAgent retrieves an agent catalog record by id.
func (s *Storage) GetAgent(ctx context.Context, id string) (persistence.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.agents[id]
	if !ok {
		return persistence.Agent{}, persistence.ErrNotFound
	}
	return agent, nil
}

// --- PlanRepository ---

// ReplacePlans applies every replacement atomically: all checks run against a
// staged copy before any mutation is visible.
func (s *Storage) ReplacePlans(ctx context.Context, replacements []persistence.PlanReplacement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]persistence.PlanRow, len(s.plans))
	for id, row := range s.plans {
		staged[id] = row
	}

	for _, repl := range replacements {
		agent, ok := s.agents[repl.AgentID]
		if !ok {
			return persistence.ErrNotFound
		}
		if agent.UnitID == nil || *agent.UnitID == "" {
			return &persistence.UnassignedUnitError{AgentID: repl.AgentID}
		}
		if repl.RequiredUnitID != nil && *agent.UnitID != *repl.RequiredUnitID {
			return &persistence.UnitMismatchError{
				AgentID:  repl.AgentID,
				UnitID:   *agent.UnitID,
				Required: *repl.RequiredUnitID,
			}
		}

		for id, row := range staged {
			if row.AgentID != repl.AgentID {
				continue
			}
			if !samePeriodScope(row.PeriodID, repl.PeriodID) {
				continue
			}
			if row.To.Before(repl.SpanFrom) || row.From.After(repl.SpanTo) {
				continue
			}
			delete(staged, id)
		}

		for _, row := range repl.Rows {
			row.UnitID = *agent.UnitID
			row.PeriodID = clonePtr(repl.PeriodID)
			staged[row.ID] = row
		}
	}

	s.plans = staged
	return nil
}

// ListPlans returns plan rows matching the filter joined with display data.
func (s *Storage) ListPlans(ctx context.Context, filter persistence.PlanFilter) ([]persistence.ProjectedPlanRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []persistence.ProjectedPlanRow
	for _, row := range s.plans {
		if !s.matchesFilter(row, filter) {
			continue
		}
		out = append(out, s.project(row))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AgentCode != out[j].AgentCode {
			return out[i].AgentCode < out[j].AgentCode
		}
		if !out[i].From.Equal(out[j].From) {
			return out[i].From.Before(out[j].From)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (s *Storage) matchesFilter(row persistence.PlanRow, filter persistence.PlanFilter) bool {
	if filter.PeriodID != nil {
		if row.PeriodID == nil || *row.PeriodID != *filter.PeriodID {
			return false
		}
	}
	if filter.From != nil && filter.To != nil {
		if row.To.Before(*filter.From) || row.From.After(*filter.To) {
			return false
		}
	}
	if filter.UnitID != nil && row.UnitID != *filter.UnitID {
		return false
	}
	if filter.AgentID != nil && row.AgentID != *filter.AgentID {
		return false
	}
	if filter.GroupID != nil {
		agent, ok := s.agents[row.AgentID]
		if !ok || agent.GroupID == nil || *agent.GroupID != *filter.GroupID {
			return false
		}
	}
	return true
}

func (s *Storage) project(row persistence.PlanRow) persistence.ProjectedPlanRow {
	projected := persistence.ProjectedPlanRow{PlanRow: row}

	if agent, ok := s.agents[row.AgentID]; ok {
		projected.AgentCode = agent.Code
		projected.AgentNickname = agent.Nickname
	}
	if unit, ok := s.units[row.UnitID]; ok {
		projected.UnitName = unit.Name
	}
	if row.DestGroupID != nil {
		if group, ok := s.groups[*row.DestGroupID]; ok {
			name := group.Name
			projected.DestGroupName = &name
		}
	}
	if row.DestUnitID != nil {
		if unit, ok := s.units[*row.DestUnitID]; ok {
			name := unit.Name
			projected.DestUnitName = &name
		}
	}

	return projected
}

// --- AuditRepository ---

// AppendEvent stores one audit trail event.
func (s *Storage) AppendEvent(ctx context.Context, event persistence.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAppendEvent != nil {
		return s.FailAppendEvent
	}
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the recorded audit events.
func (s *Storage) Events() []persistence.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

// PlanRowsForAgent returns the stored rows for one agent sorted by start
// date, for test assertions.
func (s *Storage) PlanRowsForAgent(agentID string) []persistence.PlanRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []persistence.PlanRow
	for _, row := range s.plans {
		if row.AgentID == agentID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].From.Equal(out[j].From) {
			return out[i].From.Before(out[j].From)
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out
}

func samePeriodScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func clonePtr(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
