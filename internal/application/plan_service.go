package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/rest-planning/internal/dateutil"
	"github.com/example/rest-planning/internal/interval"
	"github.com/example/rest-planning/internal/persistence"
)

// RangeResolver resolves a range selector into the global date range shared
// by the write and the read path.
type RangeResolver interface {
	Resolve(ctx context.Context, selector RangeSelector) (interval.Range, *string, error)
}

// PlanService orchestrates bulk plan submissions and plan queries.
type PlanService struct {
	plans       persistence.PlanRepository
	agents      persistence.AgentDirectory
	resolver    RangeResolver
	cipher      DisplayCipher
	audit       *AuditEmitter
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPlanService wires dependencies for plan operations.
func NewPlanService(plans persistence.PlanRepository, agents persistence.AgentDirectory, resolver RangeResolver, cipher DisplayCipher, audit *AuditEmitter, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PlanService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PlanService{
		plans:       plans,
		agents:      agents,
		resolver:    resolver,
		cipher:      cipher,
		audit:       audit,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// ApplyBulk validates and persists one bulk plan submission. Every agent in
// the submission is authorized and validated before any storage mutation, and
// the replace step for all agents shares a single transaction: the first
// failure aborts the whole submission with no partial updates.
func (s *PlanService) ApplyBulk(ctx context.Context, principal Principal, input BulkInput) (BulkResult, error) {
	if s == nil || s.plans == nil || s.agents == nil || s.resolver == nil {
		return BulkResult{}, fmt.Errorf("plan service not fully configured")
	}

	if len(input.Items) == 0 {
		vErr := &ValidationError{}
		vErr.add("items", "at least one agent plan is required")
		return BulkResult{}, vErr
	}

	global, periodID, err := s.resolver.Resolve(ctx, input.Selector)
	if err != nil {
		return BulkResult{}, err
	}

	var requiredUnitID *string
	if principal.Role == RoleUnitLeader {
		unit := principal.UnitID
		requiredUnitID = &unit
	}

	createdAt := s.now().UTC()
	seen := make(map[string]struct{}, len(input.Items))
	replacements := make([]persistence.PlanReplacement, 0, len(input.Items))
	totalRows := 0

	for _, item := range input.Items {
		agentID := strings.TrimSpace(item.AgentID)
		if agentID == "" {
			vErr := &ValidationError{}
			vErr.add("agent_id", "agent id is required")
			return BulkResult{}, vErr
		}
		if _, dup := seen[agentID]; dup {
			vErr := &ValidationError{}
			vErr.add("items", fmt.Sprintf("agent %s appears more than once", agentID))
			return BulkResult{}, vErr
		}
		seen[agentID] = struct{}{}

		agent, err := s.agents.GetAgent(ctx, agentID)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return BulkResult{}, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
			}
			return BulkResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		if !allowedToPlan(principal, agent) {
			return BulkResult{}, &ScopeViolationError{AgentID: agentID}
		}

		validated, err := interval.ValidatePlan(agentID, global, item.Segments)
		if err != nil {
			return BulkResult{}, err
		}

		rows := make([]persistence.PlanRow, 0, len(validated.Segments))
		for _, seg := range validated.Segments {
			rows = append(rows, persistence.PlanRow{
				ID:          s.idGenerator(),
				AgentID:     agentID,
				From:        seg.From.Time(),
				To:          seg.To.Time(),
				State:       seg.State,
				DestGroupID: seg.DestGroupID,
				DestUnitID:  seg.DestUnitID,
				CreatedBy:   principal.Subject,
				PeriodID:    periodID,
				CreatedAt:   createdAt,
			})
		}
		totalRows += len(rows)

		replacements = append(replacements, persistence.PlanReplacement{
			AgentID:        agentID,
			SpanFrom:       validated.Span.From.Time(),
			SpanTo:         validated.Span.To.Time(),
			PeriodID:       periodID,
			RequiredUnitID: requiredUnitID,
			Rows:           rows,
		})
	}

	if err := s.plans.ReplacePlans(ctx, replacements); err != nil {
		return BulkResult{}, s.mapReplaceError(ctx, err)
	}

	for _, repl := range replacements {
		s.audit.Emit(principal.Subject, "plan.replace", "agent", repl.AgentID,
			fmt.Sprintf("%d segments %s..%s",
				len(repl.Rows),
				dateutil.FromTime(repl.SpanFrom),
				dateutil.FromTime(repl.SpanTo)))
	}

	return BulkResult{
		PeriodID: periodID,
		Range:    global,
		Agents:   len(replacements),
		Rows:     totalRows,
	}, nil
}

// Query projects stored plans for the caller. The same range resolution as
// the write path applies, then role-based forced scoping narrows the filter
// before optional unit/agent filters.
func (s *PlanService) Query(ctx context.Context, principal Principal, params QueryParams) ([]PlanRowView, error) {
	if s == nil || s.plans == nil || s.resolver == nil {
		return nil, fmt.Errorf("plan service not fully configured")
	}

	global, periodID, err := s.resolver.Resolve(ctx, params.Selector)
	if err != nil {
		return nil, err
	}

	filter := persistence.PlanFilter{PeriodID: periodID}
	if periodID == nil {
		from := global.From.Time()
		to := global.To.Time()
		filter.From = &from
		filter.To = &to
	}
	if unitID := strings.TrimSpace(params.UnitID); unitID != "" {
		filter.UnitID = &unitID
	}
	if agentID := strings.TrimSpace(params.AgentID); agentID != "" {
		filter.AgentID = &agentID
	}

	// Forced scoping overrides whatever the caller asked for.
	switch principal.Role {
	case RoleSuperAdmin, RoleSupervisor:
	case RoleUnitLeader:
		unit := principal.UnitID
		filter.UnitID = &unit
	case RoleGroupLeader:
		group := principal.GroupID
		filter.GroupID = &group
	case RoleAgent:
		agent := principal.AgentID
		filter.AgentID = &agent
	default:
		return nil, ErrForbidden
	}

	models, err := s.plans.ListPlans(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	views := make([]PlanRowView, 0, len(models))
	for _, model := range models {
		views = append(views, s.toView(ctx, model))
	}
	return views, nil
}

func (s *PlanService) toView(ctx context.Context, model persistence.ProjectedPlanRow) PlanRowView {
	nickname := model.AgentNickname
	if s.cipher != nil {
		decrypted, err := s.cipher.Decrypt(model.AgentNickname)
		if err != nil {
			serviceLogger(ctx, s.logger, "plan", "query").Warn("failed to decrypt nickname", "agent_id", model.AgentID, "error", err)
			nickname = ""
		} else {
			nickname = decrypted
		}
	}

	return PlanRowView{
		ID:            model.ID,
		AgentID:       model.AgentID,
		AgentCode:     model.AgentCode,
		AgentNickname: nickname,
		UnitID:        model.UnitID,
		UnitName:      model.UnitName,
		From:          dateutil.FromTime(model.From),
		To:            dateutil.FromTime(model.To),
		State:         model.State,
		DestGroupID:   model.DestGroupID,
		DestGroupName: model.DestGroupName,
		DestUnitID:    model.DestUnitID,
		DestUnitName:  model.DestUnitName,
		PeriodID:      model.PeriodID,
		CreatedBy:     model.CreatedBy,
	}
}

func (s *PlanService) mapReplaceError(ctx context.Context, err error) error {
	var (
		unassigned *persistence.UnassignedUnitError
		mismatch   *persistence.UnitMismatchError
	)
	switch {
	case errors.As(err, &unassigned):
		return &UnassignedUnitError{AgentID: unassigned.AgentID}
	case errors.As(err, &mismatch):
		return &ScopeViolationError{AgentID: mismatch.AgentID}
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("segments", "referenced destination group or unit does not exist")
		return vErr
	default:
		serviceLogger(ctx, s.logger, "plan", "replace").Error("storage failure", "error", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}
