// internal/app/features/cases/routes.go
package cases

import (
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the case endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeDetail)
	r.Post("/{id}/status", h.ServeUpdateStatus)
	r.Put("/{id}/notes", h.ServeUpdateNotes)
	r.Delete("/{id}", h.ServeDelete)

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePrivileged)
		r.Get("/search", h.ServeSearchPatients)
		r.Put("/{id}/admins", h.ServeUpdateAdmins)
	})

	return r
}
