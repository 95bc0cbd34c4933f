// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user-administration endpoints. All of them are
// privileged.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(authz.RequirePrivileged)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/resolve", h.ServeResolve)
	r.Get("/{uid}", h.ServeGet)
	r.Post("/{uid}/block", h.ServeSetBlocked)
	r.Post("/{uid}/restrict", h.ServeSetRestricted)
	r.Post("/{uid}/role", h.ServeSetRole)
	r.Put("/{uid}/provider", h.ServeSetProviderID)

	return r
}
