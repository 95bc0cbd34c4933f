// internal/app/features/users/users.go
package users

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/clinichub/internal/app/system/timeouts"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type createUserRequest struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	ProviderID string `json:"provider_id"`
}

type flagRequest struct {
	Value bool `json:"value"`
}

type roleRequest struct {
	Role string `json:"role"`
}

type providerRequest struct {
	ProviderID string `json:"provider_id"`
}

// ServeList handles GET /api/users, sorted by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "a database error occurred")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
}

// ServeCreate handles POST /api/users.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.UID) == "" {
		writeError(w, http.StatusBadRequest, "a platform id is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create user")
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		UID:        strings.TrimSpace(req.UID),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Role:       req.Role,
		ProviderID: strings.TrimSpace(req.ProviderID),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ServeGet handles GET /api/users/{uid}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get user")
	defer cancel()

	u, err := h.Users.GetByUID(ctx, chi.URLParam(r, "uid"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ServeResolve handles GET /api/users/resolve?identity=. The identity
// may be a primary platform id or a provider back-reference; the
// primary key wins when both match.
func (h *Handler) ServeResolve(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimSpace(query.Get(r, "identity"))
	if identity == "" {
		writeError(w, http.StatusBadRequest, "identity is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "resolve login identity")
	defer cancel()

	u, err := h.Users.ResolveLoginIdentity(ctx, identity)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ServeSetBlocked handles POST /api/users/{uid}/block. Blocking clears
// the restricted flag.
func (h *Handler) ServeSetBlocked(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set user blocked")
	defer cancel()

	if err := h.Users.SetBlocked(ctx, chi.URLParam(r, "uid"), req.Value); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"blocked": req.Value})
}

// ServeSetRestricted handles POST /api/users/{uid}/restrict.
func (h *Handler) ServeSetRestricted(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set user restricted")
	defer cancel()

	if err := h.Users.SetRestricted(ctx, chi.URLParam(r, "uid"), req.Value); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"restricted": req.Value})
}

// ServeSetRole handles POST /api/users/{uid}/role.
func (h *Handler) ServeSetRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set user role")
	defer cancel()

	if err := h.Users.SetRole(ctx, chi.URLParam(r, "uid"), req.Role); err != nil {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": req.Role})
}

// ServeSetProviderID handles PUT /api/users/{uid}/provider. An empty
// provider id clears the back-reference.
func (h *Handler) ServeSetProviderID(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set user provider id")
	defer cancel()

	if err := h.Users.SetProviderID(ctx, chi.URLParam(r, "uid"), strings.TrimSpace(req.ProviderID)); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
