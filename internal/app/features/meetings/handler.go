// internal/app/features/meetings/handler.go
package meetings

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/clinichub/internal/app/enrich"
	eventstore "github.com/dalemusser/clinichub/internal/app/store/events"
	"github.com/dalemusser/clinichub/internal/app/store/pii"
	"go.uber.org/zap"
)

// Handler owns the upcoming-meetings and calendar views.
type Handler struct {
	Events   *eventstore.Store
	PII      *pii.Client
	Enricher *enrich.Engine
	Log      *zap.Logger
}

// NewHandler creates a new meetings Handler.
func NewHandler(events *eventstore.Store, piiClient *pii.Client, enricher *enrich.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		PII:      piiClient,
		Enricher: enricher,
		Log:      logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
