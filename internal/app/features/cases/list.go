// internal/app/features/cases/list.go
package cases

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

// listResponse is the page envelope for case list views.
type listResponse struct {
	Items      []enrich.EnrichedCase `json:"items"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Total      int                   `json:"total"`
}

// ServeList handles GET /api/cases.
//
// Query parameters: status (new|active|inactive, empty for all),
// from/to (inclusive local creation dates), search (matched against the
// case identifier), page (1-based). Visibility scoping runs before the
// other predicates.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "list cases")
	defer cancel()

	raw, err := h.Cases.List(ctx)
	if err != nil {
		h.Log.Error("list cases failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	filter := listquery.CaseFilter{
		Status: query.Get(r, "status"),
		Dates:  parseDateRange(query.Get(r, "from"), query.Get(r, "to")),
		Search: query.Get(r, "search"),
	}

	visible := visibility.FilterCases(raw, authz.SessionModel(user))
	filtered := listquery.FilterCases(visible, filter)

	totalPages := listquery.TotalPages(len(filtered))
	page := clampPage(parsePage(r), totalPages)

	enriched := h.Enricher.EnrichCases(ctx, listquery.Paginate(filtered, page))

	writeJSON(w, http.StatusOK, listResponse{
		Items:      enriched,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
	})
}

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
