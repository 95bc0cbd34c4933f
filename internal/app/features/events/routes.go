// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the event endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Post("/{id}/status", h.ServeUpdateStatus)
	r.Post("/{id}/archive", h.ServeArchive)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)

	return r
}
