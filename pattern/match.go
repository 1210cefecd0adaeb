package pattern

// =============================================================================
// ASSIGNMENT MATCHING - Exact employee id equality
// =============================================================================

// MatchAssignments returns, in original order, every assignment record
// in the definition whose employee id equals employeeID exactly. Ids
// are compared after whitespace trimming (done at decode time); there
// is no case folding. A definition with no assignment collection, or
// none matching, yields an empty sequence and drops out of
// consideration entirely.
func MatchAssignments(def Definition, employeeID string) []Assignment {
	var out []Assignment
	for _, a := range def.AssignedTo {
		if a.EmployeeID.String() == employeeID {
			out = append(out, a)
		}
	}
	return out
}
