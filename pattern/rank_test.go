package pattern_test

import (
	"testing"
	"time"

	"github.com/warp/workpattern-engine/pattern"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func asg(employeeID, effective, timestamp string) pattern.Assignment {
	return pattern.Assignment{
		EmployeeID:    pattern.FlexString(employeeID),
		EffectiveDate: pattern.FlexString(effective),
		Timestamp:     pattern.FlexString(timestamp),
	}
}

func defn(id, name string, assignments ...pattern.Assignment) pattern.Definition {
	return pattern.Definition{
		ID:         pattern.FlexString(id),
		Name:       pattern.FlexString(name),
		AssignedTo: assignments,
	}
}

func refDate(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// =============================================================================
// ASSIGNMENT RANKER (within one pattern)
// =============================================================================

func TestPickBest_EffectiveBeatsNotYetEffective(t *testing.T) {
	// GIVEN: Two assignments, one effective before the reference date
	//        and one after
	// WHEN:  Ranking with the reference date between them
	// THEN:  The one already in effect wins, regardless of input order

	before := asg("E1", "2025-01-01", "2025-01-01 09:00:00")
	after := asg("E1", "2025-12-01", "2025-12-01 09:00:00")
	asOf := refDate(2025, time.June, 1)

	best := pattern.PickBestAssignment([]pattern.Assignment{after, before}, asOf)
	if best == nil || best.EffectiveDate != "2025-01-01" {
		t.Errorf("expected the in-effect assignment, got %+v", best)
	}

	best = pattern.PickBestAssignment([]pattern.Assignment{before, after}, asOf)
	if best == nil || best.EffectiveDate != "2025-01-01" {
		t.Errorf("order reversed: expected the in-effect assignment, got %+v", best)
	}
}

func TestPickBest_LaterEffectiveDateWins(t *testing.T) {
	// GIVEN: Two assignments both effective on/before the reference date
	// THEN:  The later effective date wins

	older := asg("E1", "2024-01-01", "2024-01-01 09:00:00")
	newer := asg("E1", "2025-02-01", "2025-02-01 09:00:00")

	best := pattern.PickBestAssignment([]pattern.Assignment{older, newer}, refDate(2025, time.June, 1))
	if best == nil || best.EffectiveDate != "2025-02-01" {
		t.Errorf("expected the later effective date, got %+v", best)
	}
}

func TestPickBest_TimestampBreaksEffectiveDateTie(t *testing.T) {
	// GIVEN: Equal effective dates, different recording timestamps
	// THEN:  The later timestamp wins

	first := asg("E1", "2025-02-01", "2025-02-01 08:00:00")
	second := asg("E1", "2025-02-01", "2025-02-01T17:30:00")

	best := pattern.PickBestAssignment([]pattern.Assignment{first, second}, refDate(2025, time.June, 1))
	if best == nil || best.Timestamp != "2025-02-01T17:30:00" {
		t.Errorf("expected the later timestamp, got %+v", best)
	}
}

func TestPickBest_UnparsableEffectiveDateRanksAsFarPast(t *testing.T) {
	// GIVEN: One assignment with a malformed effective date, one not yet
	//        effective with a valid date
	// THEN:  Both land in the lower bucket, and the valid future date
	//        (later than the sentinel) wins

	malformed := asg("E1", "not-a-date", "2025-05-01 09:00:00")
	future := asg("E1", "2025-12-01", "2025-01-01 09:00:00")

	best := pattern.PickBestAssignment([]pattern.Assignment{malformed, future}, refDate(2025, time.June, 1))
	if best == nil || best.EffectiveDate != "2025-12-01" {
		t.Errorf("expected the dated future assignment, got %+v", best)
	}
}

func TestPickBest_UnknownReferenceDate_AllInLowBucket(t *testing.T) {
	// GIVEN: No reference date
	// THEN:  Nothing is "in effect"; the latest effective date wins on
	//        the secondary key alone

	older := asg("E1", "2024-01-01", "2024-01-01 09:00:00")
	newer := asg("E1", "2025-12-01", "2025-12-01 09:00:00")

	best := pattern.PickBestAssignment([]pattern.Assignment{older, newer}, nil)
	if best == nil || best.EffectiveDate != "2025-12-01" {
		t.Errorf("expected the latest effective date, got %+v", best)
	}
}

func TestPickBest_FullKeyTie_FirstInputOrderWins(t *testing.T) {
	// GIVEN: Two assignments with fully identical ranking keys
	// THEN:  The first one encountered in input order is selected

	// Same instant in both layouts: the keys compare equal but the raw
	// text tells us which candidate was picked.
	a := asg("E1", "2025-02-01", "2025-02-01 09:00:00")
	b := asg("E1", "2025-02-01", "2025-02-01T09:00:00")

	best := pattern.PickBestAssignment([]pattern.Assignment{a, b}, refDate(2025, time.June, 1))
	if best == nil || best.Timestamp != "2025-02-01 09:00:00" {
		t.Errorf("expected the first candidate on a full tie, got %+v", best)
	}
}

func TestPickBest_Empty(t *testing.T) {
	if best := pattern.PickBestAssignment(nil, refDate(2025, time.June, 1)); best != nil {
		t.Errorf("expected nil for empty input, got %+v", best)
	}
}

// =============================================================================
// ALLOW-LIST FILTER
// =============================================================================

func TestSelectPattern_AllowListFilter(t *testing.T) {
	// GIVEN: Allow-list {5,7} and patterns with ids 5, "x", 9
	// THEN:  5 and "x" (unparsable id, never excluded) remain candidates;
	//        9 is excluded

	defs := []pattern.Definition{
		defn("5", "Five", asg("E1", "2024-01-01", "2024-01-01 09:00:00")),
		defn("x", "Unparsable", asg("E1", "2025-02-01", "2025-02-01 09:00:00")),
		defn("9", "Nine", asg("E1", "2025-05-01", "2025-05-01 09:00:00")),
	}
	allowed := pattern.ParseAllowList("5,7")

	sel, err := pattern.SelectPattern(defs, "E1", refDate(2025, time.June, 1), allowed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.CandidateCount != 2 {
		t.Errorf("expected 2 candidates (5 and x), got %d", sel.CandidateCount)
	}
	// Pattern "x" has the later effective date among survivors.
	if sel.Definition.ID != "x" {
		t.Errorf("expected pattern x to win, got %s", sel.Definition.ID)
	}
}

func TestParseAllowList_BadTokensDropped(t *testing.T) {
	allowed := pattern.ParseAllowList(" 5, ,abc, 7 ")
	if got := allowed.IDs(); len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Errorf("expected [5 7], got %v", got)
	}
}

func TestParseAllowList_AllBadTokens_Inactive(t *testing.T) {
	// An allow-list that parses to nothing leaves the filter inactive.
	if allowed := pattern.ParseAllowList("abc,,xyz"); allowed != nil {
		t.Errorf("expected inactive filter, got %v", allowed.IDs())
	}
	if allowed := pattern.ParseAllowList(""); allowed != nil {
		t.Error("expected inactive filter for empty input")
	}
}

// =============================================================================
// PATTERN RANKER (across patterns)
// =============================================================================

func TestSelectPattern_InEffectPatternBeatsFuturePattern(t *testing.T) {
	// GIVEN: One pattern whose best assignment is in effect, another
	//        whose best assignment starts later
	// THEN:  The in-effect pattern wins even with an older effective date

	defs := []pattern.Definition{
		defn("10", "Future", asg("E1", "2025-12-01", "2025-12-01 09:00:00")),
		defn("11", "Current", asg("E1", "2024-03-01", "2024-03-01 09:00:00")),
	}

	sel, err := pattern.SelectPattern(defs, "E1", refDate(2025, time.June, 1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Definition.ID != "11" {
		t.Errorf("expected the in-effect pattern, got %s", sel.Definition.ID)
	}
}

func TestSelectPattern_SkipsPatternsWithoutMatch(t *testing.T) {
	// GIVEN: Patterns assigned to other employees only
	// THEN:  NoCandidateError

	defs := []pattern.Definition{
		defn("1", "Other", asg("E2", "2024-01-01", "2024-01-01 09:00:00")),
		defn("2", "Nobody"),
	}

	_, err := pattern.SelectPattern(defs, "E1", refDate(2025, time.June, 1), nil)
	if err == nil {
		t.Fatal("expected NoCandidateError")
	}
	if !pattern.IsNotFound(err) {
		t.Errorf("expected a not-found classification, got %v", err)
	}
}

func TestSelectPattern_ExactIDMatchOnly(t *testing.T) {
	// Matching is exact string equality; no case folding.
	defs := []pattern.Definition{
		defn("1", "CaseDiffers", asg("e1", "2024-01-01", "2024-01-01 09:00:00")),
	}

	if _, err := pattern.SelectPattern(defs, "E1", nil, nil); err == nil {
		t.Error("expected no candidate for a case-mismatched id")
	}
}
