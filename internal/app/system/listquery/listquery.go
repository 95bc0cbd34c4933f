// Package listquery applies the compound list filters and slices the
// result into fixed-size pages.
//
// The pipeline order is fixed: callers apply visibility first, then the
// predicates here, then pagination. All predicates work on in-memory
// slices because records are only filterable after enrichment.
package listquery

import (
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// PageSize is the fixed number of rows per page in every list view.
const PageSize = 10

// Bucket selects which event bucket a list view shows. Active and
// archived are not mutually exclusive axes in the data model (archived
// is an independent boolean), but the views only ever request one
// bucket at a time, so an archived-but-completed event surfaces only
// under BucketArchived.
type Bucket string

const (
	// BucketActive matches status active (or the legacy "new" alias)
	// and excludes archived events.
	BucketActive Bucket = "active"
	// BucketArchived matches archived events regardless of status.
	BucketArchived Bucket = "archived"
	// BucketAll skips the status and archive predicates entirely, so a
	// cancelled un-archived event is still reachable.
	BucketAll Bucket = "all"
)

// DateRange is an inclusive range of local calendar dates. Zero bounds
// are open. Comparison happens on the year/month/day of the record's
// timestamp in Loc, never on the instant, so events near midnight stay
// on their local day whatever the UTC offset.
type DateRange struct {
	From time.Time // zero means no lower bound
	To   time.Time // zero means no upper bound
	Loc  *time.Location
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

func (r DateRange) loc() *time.Location {
	if r.Loc != nil {
		return r.Loc
	}
	return time.Local
}

// Contains reports whether t's local calendar date falls inside the
// range. A zero t fails whenever any bound is set.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	if t.IsZero() {
		return false
	}
	d := civil(t.In(r.loc()))
	if !r.From.IsZero() && d < civil(r.From) {
		return false
	}
	if !r.To.IsZero() && d > civil(r.To) {
		return false
	}
	return true
}

// civil collapses a time to a comparable yyyymmdd int in its own location.
func civil(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// EventFilter is the compound predicate for event list views.
type EventFilter struct {
	Bucket Bucket
	Dates  DateRange
	Search string
}

// FilterEvents applies the bucket, date-range, and free-text predicates
// in order. The input slice is never mutated and order is preserved.
func FilterEvents(events []models.Event, f EventFilter) []models.Event {
	q := text.Fold(strings.TrimSpace(f.Search))
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !matchBucket(e, f.Bucket) {
			continue
		}
		if !f.Dates.Contains(e.Date) {
			continue
		}
		if q != "" && !matchEventSearch(e, q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchBucket(e models.Event, b Bucket) bool {
	switch b {
	case BucketArchived:
		return e.Archived
	case BucketAll:
		return true
	default: // BucketActive and unset
		return models.IsActiveStatus(e.Status) && !e.Archived
	}
}

func matchEventSearch(e models.Event, foldedQuery string) bool {
	return strings.Contains(text.Fold(e.Title), foldedQuery) ||
		strings.Contains(text.Fold(e.Description), foldedQuery) ||
		strings.Contains(text.Fold(e.CaseID), foldedQuery)
}

// CaseFilter is the compound predicate for case list views.
type CaseFilter struct {
	Status string // "", "new", "active", "inactive"
	Dates  DateRange
	Search string // matched against the case identifier only
}

// FilterCases applies the status, creation-date, and identifier-search
// predicates. Order is preserved (cases arrive created-at descending
// from the store).
func FilterCases(cases []models.Case, f CaseFilter) []models.Case {
	q := text.Fold(strings.TrimSpace(f.Search))
	status := strings.ToLower(strings.TrimSpace(f.Status))
	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if status != "" && strings.ToLower(c.Status) != status {
			continue
		}
		if !f.Dates.Contains(c.CreatedAt) {
			continue
		}
		if q != "" && !strings.Contains(text.Fold(c.CaseID), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TotalPages returns ceil(n / PageSize). An empty set has zero pages.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate slices out the 1-indexed page. It does not clamp: callers
// clamp the page number before rendering, and slicing past the end
// yields an empty page rather than an error.
func Paginate[T any](records []T, page int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(records) {
		return []T{}
	}
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// UpcomingMeetings returns the events scheduled today or later, sorted
// ascending by date. This is the one view that re-sorts away from the
// store's native descending order.
func UpcomingMeetings(events []models.Event, now time.Time, loc *time.Location) []models.Event {
	if loc == nil {
		loc = time.Local
	}
	today := civil(now.In(loc))
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Date.IsZero() {
			continue
		}
		if civil(e.Date.In(loc)) >= today {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
