// Package calgrid computes the month grid used by the calendar view.
package calgrid

import "time"

// Days is the fixed number of cells in the grid: six full weeks, so the
// layout never reflows between short and long months.
const Days = 42

// Grid returns the 42 consecutive days shown for the month containing
// anchor: from the most recent Sunday on or before the first of the
// month. Each returned day is midnight in anchor's location.
func Grid(anchor time.Time) []time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]time.Time, Days)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// SameDay reports whether two instants fall on the same calendar day in
// loc. Events are matched to grid cells by local day components, never
// by instant equality; an instant comparison would misfile events near
// midnight boundaries.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
