// internal/app/features/activity/handler.go
package activity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/clinichub/internal/app/lifecycle"
	activitystore "github.com/dalemusser/clinichub/internal/app/store/activity"
	"go.uber.org/zap"
)

// Handler owns the activity feed endpoints.
type Handler struct {
	Entries *activitystore.Store
	Ctrl    *lifecycle.Controller
	Log     *zap.Logger
}

// NewHandler creates a new activity Handler.
func NewHandler(entries *activitystore.Store, ctrl *lifecycle.Controller, logger *zap.Logger) *Handler {
	return &Handler{Entries: entries, Ctrl: ctrl, Log: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden):
		writeError(w, http.StatusForbidden, "not allowed")
	default:
		writeError(w, http.StatusInternalServerError, "the change could not be saved, please try again")
	}
}
