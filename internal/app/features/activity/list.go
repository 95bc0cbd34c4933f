// internal/app/features/activity/list.go
package activity

import (
	"net/http"
	"strconv"

	activitystore "github.com/dalemusser/clinichub/internal/app/store/activity"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/app/system/visibility"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listResponse struct {
	Items []models.ActivityEntry `json:"items"`
	Total int                    `json:"total"`
}

// ServeList handles GET /api/activity, newest first. Query parameters:
// case_id, action, created_by, limit, offset. Standard roles only see
// their own entries regardless of the created_by parameter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "list activity")
	defer cancel()

	filter := activitystore.QueryFilter{
		CaseID:    query.Get(r, "case_id"),
		Action:    query.Get(r, "action"),
		CreatedBy: query.Get(r, "created_by"),
		Limit:     parseInt64(query.Get(r, "limit")),
		Offset:    parseInt64(query.Get(r, "offset")),
	}

	raw, err := h.Entries.Query(ctx, filter)
	if err != nil {
		h.Log.Error("list activity failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	visible := visibility.FilterActivity(raw, authz.SessionModel(user))

	writeJSON(w, http.StatusOK, listResponse{Items: visible, Total: len(visible)})
}

// ServeDelete handles DELETE /api/activity/{id}. Privileged-only; the
// controller re-checks the role.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete activity entry")
	defer cancel()

	if err := h.Ctrl.DeleteActivityEntry(ctx, authz.SessionModel(user), id); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
