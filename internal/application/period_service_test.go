package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/rest-planning/internal/persistence"
	"github.com/example/rest-planning/internal/persistence/memory"
)

func fixedNow() time.Time {
	return time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + string(rune('0'+n))
	}
}

func newPeriodService(store *memory.Storage) *PeriodService {
	return NewPeriodService(store, nil, sequentialIDs("period"), fixedNow, nil)
}

func supervisor() Principal {
	return Principal{Subject: "boss", Role: RoleSupervisor}
}

func TestCreatePeriodPersistsAndNormalizes(t *testing.T) {
	t.Parallel()

	store := memory.NewStorage()
	svc := newPeriodService(store)

	period, err := svc.CreatePeriod(context.Background(), supervisor(), PeriodInput{
		Name: "  diciembre 2025  ",
		From: "2025-12-01",
		To:   "2025-12-25",
	})
	if err != nil {
		t.Fatalf("CreatePeriod returned error: %v", err)
	}

	if period.Name != "DICIEMBRE 2025" {
		t.Fatalf("expected normalized name, got %q", period.Name)
	}
	if period.CreatedBy != "boss" {
		t.Fatalf("expected creator boss, got %q", period.CreatedBy)
	}

	stored, err := store.GetPeriod(context.Background(), period.ID)
	if err != nil {
		t.Fatalf("stored period not retrievable: %v", err)
	}
	if stored.Name != "DICIEMBRE 2025" {
		t.Fatalf("stored name %q", stored.Name)
	}
}

func TestCreatePeriodRequiresManagementRole(t *testing.T) {
	t.Parallel()

	svc := newPeriodService(memory.NewStorage())

	for _, role := range []Role{RoleGroupLeader, RoleUnitLeader, RoleAgent} {
		_, err := svc.CreatePeriod(context.Background(), Principal{Role: role}, PeriodInput{
			Name: "X", From: "2025-12-01", To: "2025-12-25",
		})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("role %s: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestCreatePeriodValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newPeriodService(memory.NewStorage())

	cases := []struct {
		name      string
		input     PeriodInput
		wantField string
	}{
		{"missing name", PeriodInput{From: "2025-12-01", To: "2025-12-25"}, "name"},
		{"bad from", PeriodInput{Name: "X", From: "not-a-date", To: "2025-12-25"}, "from"},
		{"bad to", PeriodInput{Name: "X", From: "2025-12-01", To: "soon"}, "to"},
		{"inverted range", PeriodInput{Name: "X", From: "2025-12-25", To: "2025-12-01"}, "range"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.CreatePeriod(context.Background(), supervisor(), tc.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tc.wantField]; !ok {
				t.Fatalf("expected field %q in %v", tc.wantField, vErr.FieldErrors)
			}
		})
	}
}

func TestResolvePrefersPeriodOverExplicitDates(t *testing.T) {
	t.Parallel()

	store := memory.NewStorage()
	if err := store.CreatePeriod(context.Background(), persistence.Period{
		ID:   "period-1",
		Name: "DICIEMBRE",
		From: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed period: %v", err)
	}
	svc := newPeriodService(store)

	global, periodID, err := svc.Resolve(context.Background(), RangeSelector{
		PeriodID: "period-1",
		From:     "2020-01-01",
		To:       "2020-01-02",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if periodID == nil || *periodID != "period-1" {
		t.Fatalf("expected period id to be returned, got %v", periodID)
	}
	if got := global.String(); got != "2025-12-01..2025-12-25" {
		t.Fatalf("expected stored range, got %s", got)
	}
}

func TestResolveExplicitDates(t *testing.T) {
	t.Parallel()

	svc := newPeriodService(memory.NewStorage())

	global, periodID, err := svc.Resolve(context.Background(), RangeSelector{
		From: "2025-12-01",
		To:   "2025-12-25",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if periodID != nil {
		t.Fatalf("ad-hoc range should have nil period id, got %v", *periodID)
	}
	if got := global.String(); got != "2025-12-01..2025-12-25" {
		t.Fatalf("unexpected range %s", got)
	}
}

func TestResolveUnknownPeriod(t *testing.T) {
	t.Parallel()

	svc := newPeriodService(memory.NewStorage())

	_, _, err := svc.Resolve(context.Background(), RangeSelector{PeriodID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveRejectsBadExplicitDates(t *testing.T) {
	t.Parallel()

	svc := newPeriodService(memory.NewStorage())

	cases := []RangeSelector{
		{From: "junk", To: "2025-12-25"},
		{From: "2025-12-01", To: "junk"},
		{From: "2025-12-25", To: "2025-12-01"},
		{},
	}
	for _, selector := range cases {
		_, _, err := svc.Resolve(context.Background(), selector)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("selector %+v: expected ValidationError, got %v", selector, err)
		}
	}
}

func TestResolveDetectsCorruptStoredRange(t *testing.T) {
	t.Parallel()

	store := memory.NewStorage()
	if err := store.CreatePeriod(context.Background(), persistence.Period{
		ID:   "period-1",
		Name: "ROTO",
		From: time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed period: %v", err)
	}
	svc := newPeriodService(store)

	_, _, err := svc.Resolve(context.Background(), RangeSelector{PeriodID: "period-1"})
	if !errors.Is(err, ErrCorruptRange) {
		t.Fatalf("expected ErrCorruptRange, got %v", err)
	}
}

func TestListPeriodsNewestFirst(t *testing.T) {
	t.Parallel()

	store := memory.NewStorage()
	base := fixedNow()
	for i, id := range []string{"old", "mid", "new"} {
		if err := store.CreatePeriod(context.Background(), persistence.Period{
			ID:        id,
			Name:      "P",
			From:      base,
			To:        base.AddDate(0, 1, 0),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("seed period %s: %v", id, err)
		}
	}
	svc := newPeriodService(store)

	periods, err := svc.ListPeriods(context.Background())
	if err != nil {
		t.Fatalf("ListPeriods returned error: %v", err)
	}
	if len(periods) != 3 || periods[0].ID != "new" || periods[2].ID != "old" {
		t.Fatalf("unexpected order: %+v", periods)
	}
}
