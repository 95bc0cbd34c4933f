// internal/app/features/meetings/upcoming.go
package meetings

import (
	"net/http"
	"time"

	"github.com/dalemusser/clinichub/internal/app/enrich"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/dalemusser/clinichub/internal/app/system/listquery"
	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/app/system/visibility"
	"go.uber.org/zap"
)

type upcomingResponse struct {
	Items []enrich.EnrichedEvent `json:"items"`
	Total int                    `json:"total"`
}

// ServeUpcoming handles GET /api/meetings/upcoming: visible events on
// today's local date or later, soonest first.
func (h *Handler) ServeUpcoming(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upcoming meetings")
	defer cancel()

	raw, err := h.Events.List(ctx)
	if err != nil {
		h.Log.Error("upcoming meetings failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	visible := visibility.FilterEvents(raw, authz.SessionModel(user))
	upcoming := listquery.UpcomingMeetings(visible, time.Now(), time.Local)

	writeJSON(w, http.StatusOK, upcomingResponse{
		Items: h.Enricher.EnrichEvents(ctx, upcoming),
		Total: len(upcoming),
	})
}
