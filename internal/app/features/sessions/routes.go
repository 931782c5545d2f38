// internal/app/features/sessions/routes.go
package sessions

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the attendance session endpoints, all scoped to the
// active workspace.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.SM.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Get("/{sessionID}", h.HandleGet)
	r.Put("/{sessionID}/records", h.HandleUpdateRecords)
	r.Post("/{sessionID}/close", h.HandleClose)

	return r
}
