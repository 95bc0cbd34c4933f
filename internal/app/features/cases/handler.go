// internal/app/features/cases/handler.go
package cases

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/clinichub/internal/app/enrich"
	"github.com/dalemusser/clinichub/internal/app/lifecycle"
	casestore "github.com/dalemusser/clinichub/internal/app/store/cases"
	"github.com/dalemusser/clinichub/internal/app/store/pii"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the case list, detail, and mutation endpoints.
type Handler struct {
	Cases    *casestore.Store
	Ctrl     *lifecycle.Controller
	Enricher *enrich.Engine
	PII      *pii.Client
	Log      *zap.Logger

	sanitize *bluemonday.Policy
}

// NewHandler creates a new cases Handler.
func NewHandler(cases *casestore.Store, ctrl *lifecycle.Controller, enricher *enrich.Engine, piiClient *pii.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Cases:    cases,
		Ctrl:     ctrl,
		Enricher: enricher,
		PII:      piiClient,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

func (h *Handler) clean(s string) string {
	return h.sanitize.Sanitize(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeLifecycleError maps controller errors onto HTTP statuses.
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden):
		writeError(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, lifecycle.ErrPIIWriteFailed):
		writeError(w, http.StatusBadGateway, "the case was created but its patient record could not be saved")
	case errors.Is(err, mongo.ErrNoDocuments):
		writeError(w, http.StatusNotFound, "case not found")
	default:
		writeError(w, http.StatusInternalServerError, "the change could not be saved, please try again")
	}
}
