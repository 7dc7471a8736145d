package dateutil

import (
	"testing"
	"time"
)

func TestParseAcceptsCanonicalDates(t *testing.T) {
	t.Parallel()

	d, ok := Parse("2025-12-01")
	if !ok {
		t.Fatal("expected 2025-12-01 to parse")
	}
	if got := d.String(); got != "2025-12-01" {
		t.Fatalf("round trip produced %q", got)
	}
}

func TestParseRejectsMalformedDates(t *testing.T) {
	t.Parallel()

	cases := []string{"", "2025-13-01", "2025-02-30", "01/12/2025", "2025-12-1", "yesterday"}
	for _, input := range cases {
		if _, ok := Parse(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestAddDaysCrossesMonthAndLeapBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start Date
		days  int
		want  string
	}{
		{"month rollover", New(2025, time.December, 31), 1, "2026-01-01"},
		{"leap february", New(2024, time.February, 28), 1, "2024-02-29"},
		{"non leap february", New(2025, time.February, 28), 1, "2025-03-01"},
		{"backwards across year", New(2026, time.January, 1), -1, "2025-12-31"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.start.AddDays(tc.days).String(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	a := New(2025, time.December, 1)
	b := New(2025, time.December, 25)

	if got := DaysBetween(a, b); got != 24 {
		t.Fatalf("expected 24 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -24 {
		t.Fatalf("expected -24 days, got %d", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}

func TestFromTimeTruncatesToUTCDay(t *testing.T) {
	t.Parallel()

	instant := time.Date(2025, time.December, 1, 23, 45, 0, 0, time.UTC)
	if got := FromTime(instant).String(); got != "2025-12-01" {
		t.Fatalf("expected 2025-12-01, got %s", got)
	}
}

func TestMinMax(t *testing.T) {
	t.Parallel()

	a := New(2025, time.December, 1)
	b := New(2025, time.December, 5)

	if !Min(a, b).Equal(a) || !Min(b, a).Equal(a) {
		t.Fatal("Min returned the later date")
	}
	if !Max(a, b).Equal(b) || !Max(b, a).Equal(b) {
		t.Fatal("Max returned the earlier date")
	}
}
