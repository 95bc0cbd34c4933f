// internal/app/features/events/mutate.go
package events

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/clinichub/internal/app/lifecycle"
	"github.com/dalemusser/clinichub/internal/app/store/events"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CaseID      string `json:"case_id"`
	Date        string `json:"date"`
}

type updateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

// ServeCreate handles POST /api/events.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := h.clean(strings.TrimSpace(req.Title))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if strings.TrimSpace(req.CaseID) == "" {
		writeError(w, http.StatusBadRequest, "a case is required")
		return
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create event")
	defer cancel()

	created, err := h.Ctrl.CreateEvent(ctx, authz.SessionModel(user), lifecycle.NewEventInput{
		Title:       title,
		Description: h.clean(req.Description),
		CaseID:      strings.TrimSpace(req.CaseID),
		Date:        date,
	})
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ServeUpdateStatus handles POST /api/events/{id}/status.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.IsValidEventStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update event status")
	defer cancel()

	if err := h.Ctrl.UpdateEventStatus(ctx, authz.SessionModel(user), id, req.Status); err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ServeArchive handles POST /api/events/{id}/archive. The same route
// unarchives when archived is false.
func (h *Handler) ServeArchive(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var req archiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "archive event")
	defer cancel()

	if err := h.Ctrl.SetEventArchived(ctx, authz.SessionModel(user), id, req.Archived); err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"archived": req.Archived})
}

// ServeUpdate handles PUT /api/events/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := h.clean(strings.TrimSpace(req.Title))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update event")
	defer cancel()

	upd := events.EventUpdate{
		Title:       title,
		Description: h.clean(req.Description),
		Date:        date,
	}
	if err := h.Ctrl.UpdateEvent(ctx, authz.SessionModel(user), id, upd); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /api/events/{id}. Only archived events may
// be deleted.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete event")
	defer cancel()

	if err := h.Ctrl.DeleteEvent(ctx, authz.SessionModel(user), id); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// eventID parses the {id} route parameter, answering the request itself
// when the value is not a valid object id.
func eventID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseEventDate accepts RFC 3339 first, then a bare local date.
func parseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
