// internal/app/features/workspaces/routes.go
package workspaces

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the workspace endpoints. All of them require an
// identity; the member and active-workspace endpoints additionally
// resolve the workspace assertion per request.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.SM.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)

	r.Get("/active", h.HandleGetActive)
	r.Post("/active", h.HandleSetActive)
	r.Delete("/active", h.HandleClearActive)

	r.Get("/members", h.HandleListMembers)
	r.Put("/members/{userID}", h.HandleSetMemberRoles)
	r.Delete("/members/{userID}", h.HandleRemoveMember)

	return r
}
