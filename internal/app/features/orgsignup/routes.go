// internal/app/features/orgsignup/routes.go
package orgsignup

import (
	"github.com/arundhaj/broadgauge/internal/app/features/oauthflow"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, flow *oauthflow.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSignup)
	r.Post("/", h.HandleSignup)
	oauthflow.MountStart(r, flow, "/orgs/signup")
	return r
}
