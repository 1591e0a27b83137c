// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/normalize"
)

// UserCtx returns the current principal's email, display name, and a
// found flag. ok=false means the request is anonymous.
func UserCtx(r *http.Request) (email, name string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", false
	}
	return u.Email, u.Name, true
}

// Email returns the normalized session email, or "" for anonymous
// requests. This is the value compared against org admin emails.
func Email(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return normalize.Email(u.Email)
}

// IsSignedIn reports whether the request carries a session user.
func IsSignedIn(r *http.Request) bool {
	_, ok := auth.CurrentUser(r)
	return ok
}

// IsTrainer reports whether the current principal has a trainer profile.
func IsTrainer(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsTrainer
}
