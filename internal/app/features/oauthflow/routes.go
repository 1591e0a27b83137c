// internal/app/features/oauthflow/routes.go
package oauthflow

import "github.com/go-chi/chi/v5"

// Routes serves the provider callback, mounted at /oauth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{provider}", h.Callback)
	return r
}

// MountStart adds the provider start and reset endpoints to a feature
// router whose pages can initiate the OAuth flow. origin is the page the
// callback should return to.
func MountStart(r chi.Router, h *Handler, origin string) {
	r.Get("/reset", h.Reset(origin))
	r.Get("/{provider}", h.Start(origin))
}
