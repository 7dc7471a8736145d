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

// PeriodService manages the validity period catalog and resolves range
// selectors for both the write and the read path.
type PeriodService struct {
	periods     persistence.PeriodRepository
	audit       *AuditEmitter
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPeriodService wires dependencies for period operations.
func NewPeriodService(periods persistence.PeriodRepository, audit *AuditEmitter, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PeriodService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PeriodService{
		periods:     periods,
		audit:       audit,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreatePeriod validates and persists a new validity period. Only full-access
// roles may create periods. The audit event is best-effort.
func (s *PeriodService) CreatePeriod(ctx context.Context, principal Principal, input PeriodInput) (Period, error) {
	if s == nil || s.periods == nil {
		return Period{}, fmt.Errorf("period repository not configured")
	}

	if !canManagePeriods(principal) {
		return Period{}, ErrForbidden
	}

	vErr := &ValidationError{}

	name := strings.ToUpper(strings.TrimSpace(input.Name))
	if name == "" {
		vErr.add("name", "name is required")
	}

	from, okFrom := dateutil.Parse(strings.TrimSpace(input.From))
	if !okFrom {
		vErr.add("from", "invalid start date")
	}
	to, okTo := dateutil.Parse(strings.TrimSpace(input.To))
	if !okTo {
		vErr.add("to", "invalid end date")
	}
	if okFrom && okTo && to.Before(from) {
		vErr.add("range", "end date precedes start date")
	}

	if vErr.HasErrors() {
		return Period{}, vErr
	}

	period := Period{
		ID:        s.idGenerator(),
		Name:      name,
		From:      from,
		To:        to,
		CreatedBy: principal.Subject,
		CreatedAt: s.now().UTC(),
	}

	if err := s.periods.CreatePeriod(ctx, toPersistencePeriod(period)); err != nil {
		serviceLogger(ctx, s.logger, "period", "create").Error("failed to persist period", "error", err)
		return Period{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.audit.Emit(principal.Subject, "period.create", "vigencia", period.ID,
		fmt.Sprintf("%s %s..%s", period.Name, period.From, period.To))

	return period, nil
}

// ListPeriods enumerates validity periods, newest first.
func (s *PeriodService) ListPeriods(ctx context.Context) ([]Period, error) {
	if s == nil || s.periods == nil {
		return nil, fmt.Errorf("period repository not configured")
	}

	models, err := s.periods.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	periods := make([]Period, 0, len(models))
	for _, model := range models {
		periods = append(periods, toApplicationPeriod(model))
	}
	return periods, nil
}

// Resolve turns a range selector into a concrete global range. A period id
// takes precedence over explicit dates. The returned period id is nil for
// ad-hoc ranges.
func (s *PeriodService) Resolve(ctx context.Context, selector RangeSelector) (interval.Range, *string, error) {
	if s == nil || s.periods == nil {
		return interval.Range{}, nil, fmt.Errorf("period repository not configured")
	}

	if id := strings.TrimSpace(selector.PeriodID); id != "" {
		model, err := s.periods.GetPeriod(ctx, id)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return interval.Range{}, nil, ErrNotFound
			}
			return interval.Range{}, nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		period := toApplicationPeriod(model)
		if period.To.Before(period.From) {
			serviceLogger(ctx, s.logger, "period", "resolve").Error("stored period range is inverted", "period_id", id)
			return interval.Range{}, nil, ErrCorruptRange
		}
		return interval.Range{From: period.From, To: period.To}, &model.ID, nil
	}

	vErr := &ValidationError{}
	from, okFrom := dateutil.Parse(strings.TrimSpace(selector.From))
	if !okFrom {
		vErr.add("from", "invalid start date")
	}
	to, okTo := dateutil.Parse(strings.TrimSpace(selector.To))
	if !okTo {
		vErr.add("to", "invalid end date")
	}
	if okFrom && okTo && to.Before(from) {
		vErr.add("range", "end date precedes start date")
	}
	if vErr.HasErrors() {
		return interval.Range{}, nil, vErr
	}

	return interval.Range{From: from, To: to}, nil, nil
}

func toPersistencePeriod(period Period) persistence.Period {
	return persistence.Period{
		ID:        period.ID,
		Name:      period.Name,
		From:      period.From.Time(),
		To:        period.To.Time(),
		CreatedBy: period.CreatedBy,
		CreatedAt: period.CreatedAt,
	}
}

func toApplicationPeriod(model persistence.Period) Period {
	return Period{
		ID:        model.ID,
		Name:      model.Name,
		From:      dateutil.FromTime(model.From),
		To:        dateutil.FromTime(model.To),
		CreatedBy: model.CreatedBy,
		CreatedAt: model.CreatedAt,
	}
}
