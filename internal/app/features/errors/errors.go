// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/arundhaj/broadgauge/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "")
}

// NotFound renders the not-found page. Wired as the router's fallback.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(w, r, "The page you are looking for does not exist.", "/")
}

// RenderNotFound shows a friendly not-found page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	vm := viewdata.NewBaseVM(r, "Not found", backURL)
	vm.BackURL = backURL

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_notfound", pageData{BaseVM: vm, Message: msg})
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	vm := viewdata.NewBaseVM(r, "Access denied", "/")
	if backURL != "" {
		vm.BackURL = backURL
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", pageData{BaseVM: vm, Message: msg})
}
