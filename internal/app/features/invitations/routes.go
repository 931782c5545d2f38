// internal/app/features/invitations/routes.go
package invitations

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the invitation endpoints. Issue and list run against
// the active workspace; redeem needs only an identity.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.SM.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Post("/redeem", h.HandleRedeem)

	return r
}
