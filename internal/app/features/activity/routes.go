// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the activity feed endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePrivileged)
		r.Delete("/{id}", h.ServeDelete)
	})

	return r
}
