// internal/app/features/events/handler.go
package events

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/clinichub/internal/app/enrich"
	"github.com/dalemusser/clinichub/internal/app/lifecycle"
	eventstore "github.com/dalemusser/clinichub/internal/app/store/events"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the event list and mutation endpoints.
type Handler struct {
	Events   *eventstore.Store
	Ctrl     *lifecycle.Controller
	Enricher *enrich.Engine
	Log      *zap.Logger

	sanitize *bluemonday.Policy
}

// NewHandler creates a new events Handler.
func NewHandler(events *eventstore.Store, ctrl *lifecycle.Controller, enricher *enrich.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		Ctrl:     ctrl,
		Enricher: enricher,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// clean strips any markup from user-supplied free text before it
// reaches the document store.
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

// writeLifecycleError maps controller errors onto HTTP statuses. The
// attempted change was not applied; the message is retry-eligible.
func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden):
		writeError(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, lifecycle.ErrNotArchived):
		writeError(w, http.StatusConflict, "event must be archived before deletion")
	case errors.Is(err, mongo.ErrNoDocuments):
		writeError(w, http.StatusNotFound, "event not found")
	default:
		writeError(w, http.StatusInternalServerError, "the change could not be saved, please try again")
	}
}
