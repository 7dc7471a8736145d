// Package interval implements the normalization and validation rules applied
// to per-agent plan segments before they are persisted. The package is pure:
// it never touches persistence and reports every rejection through a typed
// error naming the offending agent.
package interval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/rest-planning/internal/dateutil"
)

// Segment is one contiguous date interval claimed by a single state.
type Segment struct {
	From        dateutil.Date
	To          dateutil.Date
	State       string
	DestGroupID *string
	DestUnitID  *string
}

// RawSegment carries the untrusted caller input for one segment. Dates stay
// textual so shape failures can be reported with the segment index intact.
type RawSegment struct {
	From        string
	To          string
	State       string
	DestGroupID *string
	DestUnitID  *string
}

// Range is an inclusive calendar-day range.
type Range struct {
	From dateutil.Date
	To   dateutil.Date
}

// Contains reports whether day falls inside the range, ends included.
func (r Range) Contains(day dateutil.Date) bool {
	return !day.Before(r.From) && !day.After(r.To)
}

// Days counts the calendar days covered by the range.
func (r Range) Days() int {
	return dateutil.DaysBetween(r.From, r.To) + 1
}

func (r Range) String() string {
	return r.From.String() + ".." + r.To.String()
}

// ValidatedPlan is the outcome of a successful validation pass for one agent:
// the segments sorted ascending by start date plus the bounding span used to
// scope the delete step of the replace operation.
type ValidatedPlan struct {
	AgentID  string
	Segments []Segment
	Span     Range
}

// InvalidSegmentError reports a segment whose dates or state fail the shape
// check.
type InvalidSegmentError struct {
	AgentID string
	Index   int
	Reason  string
}

func (e *InvalidSegmentError) Error() string {
	return fmt.Sprintf("agent %s: segment %d: %s", e.AgentID, e.Index+1, e.Reason)
}

// InvertedSegmentError reports a segment whose end precedes its start.
type InvertedSegmentError struct {
	AgentID string
	Index   int
	From    dateutil.Date
	To      dateutil.Date
}

func (e *InvertedSegmentError) Error() string {
	return fmt.Sprintf("agent %s: segment %d: end %s precedes start %s", e.AgentID, e.Index+1, e.To, e.From)
}

// OverlapError reports two segments claiming at least one day in common.
type OverlapError struct {
	AgentID string
	First   Range
	Second  Range
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("agent %s: segments %s and %s overlap", e.AgentID, e.First, e.Second)
}

// CoverageGapError reports the first contiguous run of days inside the global
// range that no segment claims.
type CoverageGapError struct {
	AgentID string
	Gap     Range
}

func (e *CoverageGapError) Error() string {
	if e.Gap.From.Equal(e.Gap.To) {
		return fmt.Sprintf("agent %s: day %s is not covered by any segment", e.AgentID, e.Gap.From)
	}
	return fmt.Sprintf("agent %s: days %s through %s are not covered by any segment", e.AgentID, e.Gap.From, e.Gap.To)
}

// ValidatePlan normalizes and validates the raw segments submitted for one
// agent against the global range. Segments must be mutually non-overlapping
// and their union must claim every day inside global; they may extend past
// either end of the range, for example a leave running into the next period.
func ValidatePlan(agentID string, global Range, raw []RawSegment) (ValidatedPlan, error) {
	if len(raw) == 0 {
		return ValidatedPlan{}, &InvalidSegmentError{AgentID: agentID, Index: 0, Reason: "at least one segment is required"}
	}

	segments := make([]Segment, 0, len(raw))
	for i, in := range raw {
		from, ok := dateutil.Parse(strings.TrimSpace(in.From))
		if !ok {
			return ValidatedPlan{}, &InvalidSegmentError{AgentID: agentID, Index: i, Reason: fmt.Sprintf("invalid start date %q", in.From)}
		}
		to, ok := dateutil.Parse(strings.TrimSpace(in.To))
		if !ok {
			return ValidatedPlan{}, &InvalidSegmentError{AgentID: agentID, Index: i, Reason: fmt.Sprintf("invalid end date %q", in.To)}
		}
		state := strings.ToUpper(strings.TrimSpace(in.State))
		if state == "" {
			return ValidatedPlan{}, &InvalidSegmentError{AgentID: agentID, Index: i, Reason: "state is required"}
		}
		if to.Before(from) {
			return ValidatedPlan{}, &InvertedSegmentError{AgentID: agentID, Index: i, From: from, To: to}
		}
		segments = append(segments, Segment{
			From:        from,
			To:          to,
			State:       state,
			DestGroupID: cloneString(in.DestGroupID),
			DestUnitID:  cloneString(in.DestUnitID),
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].From.Before(segments[j].From)
	})

	// Two segments sharing a start date necessarily overlap, so the walk
	// below also rejects ties left in place by the stable sort.
	for i := 1; i < len(segments); i++ {
		prev, cur := segments[i-1], segments[i]
		if !cur.From.After(prev.To) {
			return ValidatedPlan{}, &OverlapError{
				AgentID: agentID,
				First:   Range{From: prev.From, To: prev.To},
				Second:  Range{From: cur.From, To: cur.To},
			}
		}
	}

	if gap, ok := firstCoverageGap(global, segments); ok {
		return ValidatedPlan{}, &CoverageGapError{AgentID: agentID, Gap: gap}
	}

	span := Range{From: segments[0].From, To: segments[0].To}
	for _, seg := range segments[1:] {
		span.To = dateutil.Max(span.To, seg.To)
	}

	return ValidatedPlan{AgentID: agentID, Segments: segments, Span: span}, nil
}

// firstCoverageGap walks the sorted, overlap-free segments against the global
// range and returns the first contiguous run of unclaimed days. Only the
// first run is reported; later disjoint gaps surface on resubmission.
func firstCoverageGap(global Range, sorted []Segment) (Range, bool) {
	cursor := global.From
	for _, seg := range sorted {
		if cursor.After(global.To) {
			break
		}
		if seg.From.After(cursor) {
			gapEnd := dateutil.Min(seg.From.AddDays(-1), global.To)
			return Range{From: cursor, To: gapEnd}, true
		}
		if next := seg.To.AddDays(1); next.After(cursor) {
			cursor = next
		}
	}
	if !cursor.After(global.To) {
		return Range{From: cursor, To: global.To}, true
	}
	return Range{}, false
}

// DayStates projects validated segments onto the global range, yielding the
// state claimed by each day in date order. Every day is claimed by exactly
// one segment once ValidatePlan has passed.
func DayStates(global Range, segments []Segment) []DayState {
	out := make([]DayState, 0, global.Days())
	for day := global.From; !day.After(global.To); day = day.AddDays(1) {
		for _, seg := range segments {
			if !day.Before(seg.From) && !day.After(seg.To) {
				out = append(out, DayState{Day: day, State: seg.State})
				break
			}
		}
	}
	return out
}

// DayState pairs one calendar day with the state claiming it.
type DayState struct {
	Day   dateutil.Date
	State string
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
