/*
resolver.go - Orchestration of one resolution request

PURPOSE:
  Ties the pieces together: normalize the reference date, parse the
  allow-list, run the two-tier ranking, aggregate the winner's week
  tables, and assemble the result bundle with selection metadata and
  debug counters.

PURITY:
  Resolve is a pure function over its arguments. The allow-list and
  reference date are explicit parameters, never read from ambient
  process state, so concurrent callers need no coordination and the
  same inputs always produce bit-identical results.

ROUNDING:
  weekly_hours = weekly_minutes / 60 rounded to two decimals,
  half away from zero (decimal.Round), for cross-service determinism.
*/
package pattern

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT BUNDLE
// =============================================================================

// Result is what the caller forwards or stores.
type Result struct {
	WeeklyMinutes int      `json:"weekly_minutes"`
	WeeklyHours   float64  `json:"weekly_hours"`
	PerDayMinutes []int    `json:"per_day_minutes"`
	Selected      Selected `json:"selected"`
	Debug         Debug    `json:"debug"`
}

// Selected identifies the winning pattern and assignment.
type Selected struct {
	WorkPatternID       string `json:"workpattern_id"`
	WorkPatternName     string `json:"workpattern_name"`
	AssignmentEffective string `json:"assignment_effective_date"`
	AssignmentTimestamp string `json:"assignment_timestamp"`
}

// Debug carries the counters used to diagnose surprising selections.
type Debug struct {
	ResultCount     int   `json:"result_count"`
	CandidateCount  int   `json:"candidate_count"`
	FilterIDsActive []int `json:"filter_ids_active"`
}

// =============================================================================
// RESOLVE
// =============================================================================

// Resolve selects the effective work pattern for an employee and
// derives its weekly metrics.
//
// asOfText is an optional YYYY-MM-DD reference date; empty or
// malformed input leaves the reference date unknown. allowListText is
// an optional comma-separated list of pattern ids; unparsable tokens
// are dropped, and empty input (or an all-bad token list) leaves the
// filter inactive.
func Resolve(doc *Document, employeeID, asOfText, allowListText string) (*Result, error) {
	if doc == nil || len(doc.Result) == 0 {
		return nil, &InvalidInputError{Reason: "no pattern definitions supplied"}
	}

	var asOf *time.Time
	if d, ok := ParseDate(asOfText); ok {
		asOf = &d
	}

	allowed := ParseAllowList(allowListText)

	sel, err := SelectPattern(doc.Result, employeeID, asOf, allowed)
	if err != nil {
		return nil, err
	}

	agg, err := AggregateWeeks(sel.Definition)
	if err != nil {
		return nil, err
	}

	hours, _ := decimal.NewFromInt(int64(agg.WeeklyMinutes)).
		Div(decimal.NewFromInt(60)).
		Round(2).
		Float64()

	return &Result{
		WeeklyMinutes: agg.WeeklyMinutes,
		WeeklyHours:   hours,
		PerDayMinutes: agg.PerDayMinutes,
		Selected: Selected{
			WorkPatternID:       sel.Definition.ID.String(),
			WorkPatternName:     sel.Definition.Name.String(),
			AssignmentEffective: sel.Assignment.EffectiveDate.String(),
			AssignmentTimestamp: sel.Assignment.Timestamp.String(),
		},
		Debug: Debug{
			ResultCount:     len(doc.Result),
			CandidateCount:  sel.CandidateCount,
			FilterIDsActive: allowed.IDs(),
		},
	}, nil
}

// ParseAllowList parses comma-separated integer pattern ids. Tokens
// that fail to parse are ignored; if nothing parses, the filter is
// inactive (nil).
func ParseAllowList(text string) AllowList {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	ids := make(AllowList)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		ids[n] = struct{}{}
	}

	if len(ids) == 0 {
		return nil
	}
	return ids
}
