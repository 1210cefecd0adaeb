/*
rank.go - Two-tier selection of the winning (pattern, assignment) pair

PURPOSE:
  Tier one ranks assignments WITHIN a single pattern: assignments
  already in effect by the reference date outrank all others regardless
  of how much earlier they started; within a tier, the most recently
  effective wins, then the most recently recorded.

  Tier two re-ranks the per-pattern winners ACROSS patterns using the
  same effective-date/timestamp signal already extracted per pattern.

THE TWO BUCKET SCALES:
  Tier one buckets on {0,1}; tier two buckets on {1,2}. The scales are
  not numerically comparable to each other and are intentionally kept
  as two distinct scoring functions. The numbering difference is
  load-bearing upstream behavior; do not unify them.

TIE-BREAKING:
  Sorting is stable and descending on the full key, so candidates with
  fully equal keys resolve to the first one encountered in input order.

SEE ALSO:
  - match.go:    candidate filtering per pattern
  - resolver.go: allow-list parsing, orchestration
*/
package pattern

import (
	"sort"
	"time"
)

// =============================================================================
// RANKING KEY
// =============================================================================

// rankKey is the lexicographic comparison tuple: bucket first, then
// effective date, then recording timestamp, all descending.
type rankKey struct {
	bucket    int
	effective time.Time
	stamp     time.Time
}

func (k rankKey) greater(o rankKey) bool {
	if k.bucket != o.bucket {
		return k.bucket > o.bucket
	}
	if !k.effective.Equal(o.effective) {
		return k.effective.After(o.effective)
	}
	return k.stamp.After(o.stamp)
}

// assignmentKey scores one assignment within a pattern.
// Bucket 1: the reference date is known, the effective date parsed, and
// it is on or before the reference date - the assignment is in effect.
// Bucket 0: everything else (unknown reference date, unparsable
// effective date, or not yet effective).
func assignmentKey(a Assignment, asOf *time.Time) rankKey {
	eff, effOK := ParseDate(a.EffectiveDate.String())
	ts, tsOK := ParseTimestamp(a.Timestamp.String())

	key := rankKey{effective: sentinelDate, stamp: sentinelTime}
	if effOK {
		key.effective = eff
	}
	if tsOK {
		key.stamp = ts
	}
	if asOf != nil && effOK && onOrBefore(eff, *asOf) {
		key.bucket = 1
	}
	return key
}

// patternKey scores a pattern's chosen assignment against other
// patterns. Same signal, different scale: bucket 2 when the assignment
// is in effect, bucket 1 otherwise.
func patternKey(a Assignment, asOf *time.Time) rankKey {
	key := assignmentKey(a, asOf)
	if key.bucket == 1 {
		key.bucket = 2
	} else {
		key.bucket = 1
	}
	return key
}

// =============================================================================
// TIER ONE - Best assignment within a pattern
// =============================================================================

// PickBestAssignment selects the assignment with the greatest ranking
// key, resolving full-key ties to the earliest input position. Returns
// nil for an empty candidate list.
func PickBestAssignment(assignments []Assignment, asOf *time.Time) *Assignment {
	if len(assignments) == 0 {
		return nil
	}

	type scored struct {
		key rankKey
		a   Assignment
	}
	ranked := make([]scored, len(assignments))
	for i, a := range assignments {
		ranked[i] = scored{key: assignmentKey(a, asOf), a: a}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].key.greater(ranked[j].key)
	})

	best := ranked[0].a
	return &best
}

// =============================================================================
// ALLOW-LIST FILTER
// =============================================================================

// AllowList restricts selection to specific pattern ids. A nil
// AllowList is inactive. A pattern is excluded only when its id parses
// to an integer that is absent from the list; a pattern whose id fails
// to parse is never excluded.
type AllowList map[int]struct{}

func (l AllowList) Excludes(id FlexString) bool {
	if l == nil {
		return false
	}
	n, ok := id.AsInt()
	if !ok {
		return false
	}
	_, listed := l[n]
	return !listed
}

// IDs returns the active filter ids in ascending order, or nil when
// the filter is inactive.
func (l AllowList) IDs() []int {
	if l == nil {
		return nil
	}
	ids := make([]int, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// =============================================================================
// TIER TWO - Winning pattern across all definitions
// =============================================================================

// Selection is the outcome of cross-pattern ranking.
type Selection struct {
	Definition Definition
	Assignment Assignment

	// CandidateCount is how many patterns survived matching and
	// produced a best assignment.
	CandidateCount int
}

// SelectPattern applies the allow-list filter, picks each surviving
// pattern's best assignment, then selects the overall winner by the
// pattern-level key. Fails with NoCandidateError when no pattern has a
// selectable assignment for the employee.
func SelectPattern(defs []Definition, employeeID string, asOf *time.Time, allowed AllowList) (*Selection, error) {
	type candidate struct {
		key rankKey
		def Definition
		a   Assignment
	}

	var candidates []candidate
	for _, def := range defs {
		if allowed.Excludes(def.ID) {
			continue
		}

		matches := MatchAssignments(def, employeeID)
		if len(matches) == 0 {
			continue
		}

		best := PickBestAssignment(matches, asOf)
		if best == nil {
			continue
		}

		candidates = append(candidates, candidate{
			key: patternKey(*best, asOf),
			def: def,
			a:   *best,
		})
	}

	if len(candidates) == 0 {
		return nil, &NoCandidateError{EmployeeID: employeeID}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].key.greater(candidates[j].key)
	})

	return &Selection{
		Definition:     candidates[0].def,
		Assignment:     candidates[0].a,
		CandidateCount: len(candidates),
	}, nil
}
