// internal/app/features/login/routes.go
package login

import (
	"github.com/arundhaj/broadgauge/internal/app/features/oauthflow"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, flow *oauthflow.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	oauthflow.MountStart(r, flow, "/login")
	return r
}
