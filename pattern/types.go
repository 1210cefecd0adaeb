/*
Package pattern resolves the currently-effective work-pattern assignment
for an employee and derives weekly time metrics from it.

PURPOSE:
  The upstream HR service returns a set of overlapping, versioned work
  patterns. Each pattern carries assignment records (employee, effective
  date, recording timestamp) and one or more week tables of per-day
  working minutes. Given an employee id and an optional reference date,
  this package picks the single winning (pattern, assignment) pair using
  a deterministic multi-level tie-break, then folds the winner's week
  tables into a weekly total and per-day breakdown.

KEY CONCEPTS IN THIS FILE (types.go):
  - Document:   top-level upstream response (a Result sequence)
  - Definition: one work pattern (id, name, assignments, week tables)
  - Assignment: pattern-to-employee binding with effective date/timestamp
  - WeekTable:  per-week breakdown of working minutes by day

BOUNDARY NORMALIZATION:
  The upstream payload is loosely typed: ids arrive as numbers or
  strings, "Week" is an object or an array of objects, and working
  minutes may be numeric, string-numeric, or absent. All of that
  sloppiness is absorbed here, in custom UnmarshalJSON implementations,
  so the matching/ranking/aggregation code only ever sees one shape.
  A field that cannot be coerced falls back to its zero value; one bad
  field never aborts decoding of an otherwise valid record.

DESIGN PRINCIPLES:
  1. Purity: nothing in this package does I/O or touches ambient state
  2. Determinism: same document + inputs => bit-identical result
  3. Tolerance at leaves: malformed leaf fields degrade to sentinels,
     only document-level malformation is an error

SEE ALSO:
  - temporal.go:  date/timestamp parsing and ranking sentinels
  - rank.go:      the two-tier scoring policy
  - aggregate.go: week-table folding
  - resolver.go:  orchestration and the Result bundle
*/
package pattern

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// =============================================================================
// DOCUMENT - Top-level upstream response
// =============================================================================

// Document is the decoded work-pattern response. Result keeps every
// element the upstream sent, including ones that decode to an empty
// Definition; counting them is part of the debug contract.
type Document struct {
	Result []Definition `json:"Result"`
}

// ParseDocument decodes a raw upstream body. It fails only when the
// body is not a JSON object carrying a non-empty Result array; all
// leaf-level sloppiness is handled by the field types below.
func ParseDocument(data []byte) (*Document, error) {
	var probe struct {
		Result json.RawMessage `json:"Result"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &InvalidInputError{Reason: "response is not a JSON object"}
	}
	if len(probe.Result) == 0 {
		return nil, &InvalidInputError{Reason: "response missing Result array"}
	}

	var defs []Definition
	if err := json.Unmarshal(probe.Result, &defs); err != nil {
		return nil, &InvalidInputError{Reason: "Result is not an array"}
	}
	if len(defs) == 0 {
		return nil, &InvalidInputError{Reason: "Result array is empty"}
	}

	return &Document{Result: defs}, nil
}

// =============================================================================
// DEFINITION - One work pattern
// =============================================================================

type Definition struct {
	ID         FlexString     `json:"WorkPatternId"`
	Name       FlexString     `json:"WorkPatternName"`
	AssignedTo AssignmentList `json:"AssignedTo"`
	Week       WeekField      `json:"Week"`
}

// UnmarshalJSON tolerates non-object Result elements: they decode to a
// zero Definition, which later matches no employee and is skipped.
func (d *Definition) UnmarshalJSON(data []byte) error {
	*d = Definition{}
	if !isJSONObject(data) {
		return nil
	}
	type plain Definition
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	*d = Definition(p)
	return nil
}

// =============================================================================
// ASSIGNMENT - Pattern-to-employee binding
// =============================================================================

// Assignment says "this pattern applies to this employee starting on
// EffectiveDate, recorded at Timestamp". Both dates stay in their raw
// text form here; ranking parses them and substitutes sentinels.
type Assignment struct {
	EmployeeID    FlexString `json:"EmployeeId"`
	EffectiveDate FlexString `json:"EffectiveDate"`
	Timestamp     FlexString `json:"TimeStamp"`
}

// AssignmentList decodes AssignedTo. A non-array value or non-object
// elements are dropped silently.
type AssignmentList []Assignment

func (l *AssignmentList) UnmarshalJSON(data []byte) error {
	*l = nil
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}
	for _, raw := range raws {
		if !isJSONObject(raw) {
			continue
		}
		var a Assignment
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		*l = append(*l, a)
	}
	return nil
}

// =============================================================================
// WEEK TABLES - Per-week working minutes
// =============================================================================

// WeekTable is one week's day entries.
type WeekTable struct {
	Days DayList `json:"WeekDetail"`
}

// WeekField normalizes the polymorphic "Week" value: a lone table
// becomes a one-element sequence, an array keeps its object elements,
// anything else is empty. Aggregation never sees the ambiguity.
type WeekField []WeekTable

func (w *WeekField) UnmarshalJSON(data []byte) error {
	*w = nil
	if isJSONObject(data) {
		var t WeekTable
		if err := json.Unmarshal(data, &t); err == nil {
			*w = WeekField{t}
		}
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}
	for _, raw := range raws {
		if !isJSONObject(raw) {
			continue
		}
		var t WeekTable
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		*w = append(*w, t)
	}
	return nil
}

// Day is one day entry inside a week table.
type Day struct {
	WorkingMins Minutes `json:"TotalWorkingMins"`
}

// DayList decodes WeekDetail. A non-array value yields an empty day
// sequence; non-object elements are dropped, they do not count as zero.
type DayList []Day

func (l *DayList) UnmarshalJSON(data []byte) error {
	*l = nil
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}
	for _, raw := range raws {
		if !isJSONObject(raw) {
			continue
		}
		var d Day
		if err := json.Unmarshal(raw, &d); err != nil {
			continue
		}
		*l = append(*l, d)
	}
	return nil
}

// =============================================================================
// FLEXIBLE LEAF TYPES
// =============================================================================

// FlexString coerces a JSON string or number to trimmed text. Anything
// else (null, booleans, nested structures) becomes the empty string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = ""
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		*s = FlexString(strings.TrimSpace(t))
	case json.Number:
		*s = FlexString(t.String())
	}
	return nil
}

func (s FlexString) String() string { return string(s) }

// AsInt parses the value as an integer identifier.
func (s FlexString) AsInt() (int, bool) {
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Minutes coerces a working-minutes value: numeric or string-numeric
// input truncates to whole minutes, anything else counts as zero.
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	*m = 0
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		*m = Minutes(int(t))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil {
			*m = Minutes(int(f))
		}
	}
	return nil
}

// isJSONObject reports whether raw JSON starts an object literal.
func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
