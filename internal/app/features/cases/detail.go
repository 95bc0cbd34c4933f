// internal/app/features/cases/detail.go
package cases

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/clinichub/internal/app/store/pii"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/app/system/visibility"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeDetail handles GET /api/cases/{id}, returning the enriched case.
// A case outside the viewer's scope is reported as not found rather
// than forbidden so identifiers cannot be probed.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	caseID := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "case detail")
	defer cancel()

	cs, err := h.Cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "case not found")
			return
		}
		h.Log.Error("case detail failed", zap.String("case_id", caseID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return
	}

	if len(visibility.FilterCases([]models.Case{*cs}, authz.SessionModel(user))) == 0 {
		writeError(w, http.StatusNotFound, "case not found")
		return
	}

	enriched := h.Enricher.EnrichCases(ctx, []models.Case{*cs})
	writeJSON(w, http.StatusOK, enriched[0])
}

// ServeSearchPatients handles GET /api/cases/search?q=, proxying a
// patient-name search against the PII service. Privileged roles only;
// results are PII.
func (h *Handler) ServeSearchPatients(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(query.Get(r, "q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []models.Patient{})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "patient search")
	defer cancel()

	patients, err := h.PII.Search(ctx, q)
	if err != nil {
		if errors.Is(err, pii.ErrNotFound) {
			writeJSON(w, http.StatusOK, []models.Patient{})
			return
		}
		h.Log.Warn("patient search failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "the patient service is unavailable")
		return
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	writeJSON(w, http.StatusOK, patients)
}
