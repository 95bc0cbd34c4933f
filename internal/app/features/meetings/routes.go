// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the meeting views.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/upcoming", h.ServeUpcoming)
	r.Get("/calendar", h.ServeCalendar)

	return r
}
