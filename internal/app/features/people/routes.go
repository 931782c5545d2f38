// internal/app/features/people/routes.go
package people

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the roster endpoints, all scoped to the active
// workspace.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.SM.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Get("/{personID}", h.HandleGet)
	r.Put("/{personID}", h.HandleRename)
	r.Delete("/{personID}", h.HandleDelete)

	return r
}
