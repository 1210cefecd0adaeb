package pattern

// =============================================================================
// TIME AGGREGATION - Fold week tables into flat totals
// =============================================================================

// Aggregate is the flattened view of a pattern's week tables.
type Aggregate struct {
	WeeklyMinutes int
	PerDayMinutes []int
}

// AggregateWeeks folds the definition's normalized week tables.
//
// The weekly total sums the day minutes of EVERY week table. The
// per-day breakdown is the day minutes of the LAST week table that
// yields a non-empty day sequence - each table overwrites the previous
// candidate unless empty, it is not an element-wise sum. That
// asymmetry matches the upstream policy exactly and must not be
// "fixed" here.
//
// Fails with MissingScheduleDataError when the definition has no week
// tables at all.
func AggregateWeeks(def Definition) (*Aggregate, error) {
	if len(def.Week) == 0 {
		return nil, &MissingScheduleDataError{DefinitionID: def.ID.String()}
	}

	total := 0
	perDay := []int{}

	for _, week := range def.Week {
		weekTotal, weekPerDay := weekMinutes(week)
		total += weekTotal
		if len(weekPerDay) > 0 {
			perDay = weekPerDay
		}
	}

	return &Aggregate{WeeklyMinutes: total, PerDayMinutes: perDay}, nil
}

// weekMinutes sums one week table. Missing or non-numeric minutes were
// already coerced to zero at decode time.
func weekMinutes(week WeekTable) (int, []int) {
	if len(week.Days) == 0 {
		return 0, nil
	}

	perDay := make([]int, 0, len(week.Days))
	total := 0
	for _, day := range week.Days {
		perDay = append(perDay, int(day.WorkingMins))
		total += int(day.WorkingMins)
	}
	return total, perDay
}
