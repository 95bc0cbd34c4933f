// internal/app/features/events/list.go
package events

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/clinichub/internal/app/enrich"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/dalemusser/clinichub/internal/app/system/listquery"
	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/app/system/visibility"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// listResponse is the page envelope for event list views.
type listResponse struct {
	Items      []enrich.EnrichedEvent `json:"items"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
	Total      int                    `json:"total"`
}

// ServeList handles GET /api/events.
//
// Query parameters: bucket (active|archived|all, default active),
// from/to (inclusive local dates, 2006-01-02), search, page (1-based).
// Visibility scoping runs before any other predicate so counts and
// page totals never include records the viewer may not see.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "list events")
	defer cancel()

	raw, err := h.Events.List(ctx)
	if err != nil {
		h.Log.Error("list events failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	filter := listquery.EventFilter{
		Bucket: parseBucket(query.Get(r, "bucket")),
		Dates:  parseDateRange(query.Get(r, "from"), query.Get(r, "to")),
		Search: query.Get(r, "search"),
	}

	visible := visibility.FilterEvents(raw, authz.SessionModel(user))
	filtered := listquery.FilterEvents(visible, filter)

	totalPages := listquery.TotalPages(len(filtered))
	page := clampPage(parsePage(r), totalPages)

	enriched := h.Enricher.EnrichEvents(ctx, listquery.Paginate(filtered, page))

	writeJSON(w, http.StatusOK, listResponse{
		Items:      enriched,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
	})
}

// parseBucket defaults to the active bucket; the views only ever ask
// for one bucket at a time.
func parseBucket(s string) listquery.Bucket {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "archived":
		return listquery.BucketArchived
	case "all":
		return listquery.BucketAll
	default:
		return listquery.BucketActive
	}
}

// parseDateRange parses inclusive local-date bounds. Invalid values are
// treated as unset.
func parseDateRange(from, to string) listquery.DateRange {
	dr := listquery.DateRange{Loc: time.Local}
	if from != "" {
		if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(from), time.Local); err == nil {
			dr.From = t
		}
	}
	if to != "" {
		if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(to), time.Local); err == nil {
			dr.To = t
		}
	}
	return dr
}

// parsePage extracts the 1-based page parameter, defaulting to 1.
func parsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// clampPage keeps the page inside [1, totalPages]. The listquery layer
// only slices; clamping is the caller's job.
func clampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	if page < 1 {
		return 1
	}
	return page
}
