// internal/app/features/workshops/routes.go
package workshops

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.ServeDetail)
	return r
}
