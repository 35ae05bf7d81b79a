// Package streak computes study streaks over local calendar dates.
//
// Timestamps are turned into dates with DateOf before they reach Compute;
// Compute itself never sees a time zone.
package streak

// State is a user's streak. Both values count calendar days.
type State struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Compute derives the streak from the set of dates with at least one review.
// Duplicates and ordering in dates do not matter, and dates after today are
// ignored.
//
// Current is the run ending today, or ending yesterday when nothing has been
// studied yet today. Longest is the longest run anywhere in the history.
func Compute(dates []CalendarDate, today CalendarDate) State {
	studied := make(map[CalendarDate]bool, len(dates))
	for _, d := range dates {
		if d.After(today) {
			continue
		}
		studied[d] = true
	}
	if len(studied) == 0 {
		return State{}
	}

	var state State

	start := today
	if !studied[start] {
		start = today.AddDays(-1)
	}
	for d := start; studied[d]; d = d.AddDays(-1) {
		state.Current++
	}

	for d := range studied {
		// Only count runs from their first day.
		if studied[d.AddDays(-1)] {
			continue
		}
		run := 0
		for next := d; studied[next]; next = next.AddDays(1) {
			run++
		}
		state.Longest = max(state.Longest, run)
	}

	return state
}
