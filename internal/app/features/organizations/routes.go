// internal/app/features/organizations/routes.go
package organizations

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)
	r.Get("/{id}/new-workshop", h.ServeNewWorkshop)
	r.Post("/{id}/new-workshop", h.HandleNewWorkshop)
	return r
}
