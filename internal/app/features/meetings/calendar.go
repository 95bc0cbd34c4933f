// internal/app/features/meetings/calendar.go
package meetings

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/clinichub/internal/app/enrich"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/dalemusser/clinichub/internal/app/system/calgrid"
	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/app/system/visibility"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// calendarEvent is an event cell entry with the patient name already
// joined in; the month view never shows more PII than the name.
type calendarEvent struct {
	models.Event
	PatientName string `json:"patient_name"`
}

type calendarDay struct {
	Date    string          `json:"date"` // 2006-01-02, local
	InMonth bool            `json:"in_month"`
	Events  []calendarEvent `json:"events"`
}

type calendarResponse struct {
	Month string        `json:"month"` // 2006-01
	Days  []calendarDay `json:"days"`
}

// ServeCalendar handles GET /api/meetings/calendar?month=2006-01. The
// grid always spans 42 days starting on a Sunday; events land in cells
// by local day, and patient names come from one batch PII lookup.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	anchor := time.Now()
	if m := query.Get(r, "month"); m != "" {
		t, err := time.ParseInLocation("2006-01", m, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		anchor = t
	}

	grid := calgrid.Grid(anchor)
	from, to := grid[0], grid[len(grid)-1].AddDate(0, 0, 1)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "calendar month")
	defer cancel()

	raw, err := h.Events.ListBetween(ctx, from, to)
	if err != nil {
		h.Log.Error("calendar month failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return
	}
	visible := visibility.FilterEvents(raw, authz.SessionModel(user))

	names := h.patientNames(ctx, visible)

	days := make([]calendarDay, len(grid))
	for i, day := range grid {
		cell := calendarDay{
			Date:    day.Format("2006-01-02"),
			InMonth: day.Month() == anchor.Month(),
			Events:  []calendarEvent{},
		}
		for _, e := range visible {
			if calgrid.SameDay(e.Date, day, time.Local) {
				cell.Events = append(cell.Events, calendarEvent{
					Event:       e,
					PatientName: names[e.CaseID],
				})
			}
		}
		days[i] = cell
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Month: anchor.Format("2006-01"),
		Days:  days,
	})
}

// patientNames batch-resolves display names for every distinct case id
// in the slice. Lookup failure degrades to the sentinel for all names
// rather than failing the view.
func (h *Handler) patientNames(ctx context.Context, events []models.Event) map[string]string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		if e.CaseID == "" {
			continue
		}
		if _, ok := seen[e.CaseID]; ok {
			continue
		}
		seen[e.CaseID] = struct{}{}
		ids = append(ids, e.CaseID)
	}

	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names
	}

	patients, err := h.PII.Batch(ctx, ids)
	if err != nil {
		h.Log.Warn("patient batch lookup failed", zap.Int("count", len(ids)), zap.Error(err))
	}
	for _, id := range ids {
		if p, ok := patients[id]; ok && p.DisplayName() != "" {
			names[id] = p.DisplayName()
			continue
		}
		names[id] = enrich.UnknownPatient
	}
	return names
}
