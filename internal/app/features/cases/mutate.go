// internal/app/features/cases/mutate.go
package cases

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/clinichub/internal/app/lifecycle"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createCaseRequest struct {
	Notes          string   `json:"notes"`
	AssignedAdmins []string `json:"assigned_admins"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	PatientNote string `json:"patient_note"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type adminsRequest struct {
	AssignedAdmins []string `json:"assigned_admins"`
}

// ServeCreate handles POST /api/cases. The operational fields land in
// the document store; the identifying fields go to the PII service
// under the freshly allocated case id.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FirstName) == "" && strings.TrimSpace(req.LastName) == "" {
		writeError(w, http.StatusBadRequest, "a patient name is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create case")
	defer cancel()

	created, err := h.Ctrl.CreateCase(ctx, authz.SessionModel(user), lifecycle.NewCaseInput{
		Notes:          h.clean(req.Notes),
		AssignedAdmins: req.AssignedAdmins,
		Patient: models.Patient{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			DateOfBirth: strings.TrimSpace(req.DateOfBirth),
			Email:       strings.TrimSpace(req.Email),
			Phone:       strings.TrimSpace(req.Phone),
			Address:     strings.TrimSpace(req.Address),
			Notes:       h.clean(req.PatientNote),
		},
	})
	if err != nil {
		// The document may have persisted even on failure; callers are
		// told which failure mode they hit.
		writeLifecycleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ServeUpdateStatus handles POST /api/cases/{id}/status.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	caseID := chi.URLParam(r, "id")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.IsValidCaseStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update case status")
	defer cancel()

	if err := h.Ctrl.UpdateCaseStatus(ctx, authz.SessionModel(user), caseID, req.Status); err != nil {
		writeLifecycleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ServeUpdateNotes handles PUT /api/cases/{id}/notes. Notes are
// operational text and may be edited by anyone who can touch the case.
func (h *Handler) ServeUpdateNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	caseID := chi.URLParam(r, "id")

	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update case notes")
	defer cancel()

	if !h.canTouch(ctx, w, caseID, authz.SessionModel(user)) {
		return
	}
	if err := h.Cases.UpdateNotes(ctx, caseID, h.clean(req.Notes)); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeUpdateAdmins handles PUT /api/cases/{id}/admins. Reassignment is
// a privileged operation; the route middleware already enforces that.
func (h *Handler) ServeUpdateAdmins(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "id")

	var req adminsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update case admins")
	defer cancel()

	if err := h.Cases.UpdateAssignedAdmins(ctx, caseID, req.AssignedAdmins); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeDelete handles DELETE /api/cases/{id}. The PII record and the
// case's activity entries survive the delete.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	caseID := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete case")
	defer cancel()

	if err := h.Ctrl.DeleteCase(ctx, authz.SessionModel(user), caseID); err != nil {
		writeLifecycleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// canTouch loads the case and checks edit scope, writing the error
// response itself on failure.
func (h *Handler) canTouch(ctx context.Context, w http.ResponseWriter, caseID string, actor models.User) bool {
	cs, err := h.Cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "case not found")
			return false
		}
		h.Log.Error("load case failed", zap.String("case_id", caseID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return false
	}
	if actor.IsPrivileged() || cs.CreatedBy == actor.UID {
		return true
	}
	for _, a := range cs.AssignedAdmins {
		if a == actor.UID {
			return true
		}
	}
	writeError(w, http.StatusForbidden, "not allowed")
	return false
}
