// internal/app/system/auth/pending.go
package auth

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// PendingCookieName holds a verified remote identity awaiting local
// signup completion. The cookie is client-held and opaquely encoded, not
// bound to a server-side session, so an unauthenticated visitor can walk
// a multi-page signup form without server state.
const PendingCookieName = "oauth_pending"

// pendingMaxAge bounds how long an unfinished signup can sit idle.
const pendingMaxAge = 30 * time.Minute

// PendingIdentity is a verified but not-yet-registered remote identity.
type PendingIdentity struct {
	Provider string
	Email    string
	Name     string
	Handle   string // provider handle, e.g. a GitHub login
}

// SetPending stores the identity in the pending-signup cookie.
func (sm *SessionManager) SetPending(w http.ResponseWriter, id PendingIdentity) error {
	encoded, err := sm.pending.Encode(PendingCookieName, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     PendingCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(pendingMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sm.store.Options != nil && sm.store.Options.Secure,
	})
	return nil
}

// Pending returns the pending identity from the request cookie, if one
// is present and decodes cleanly. A tampered or expired cookie reads as
// absent.
func (sm *SessionManager) Pending(r *http.Request) (*PendingIdentity, bool) {
	c, err := r.Cookie(PendingCookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	var id PendingIdentity
	if err := sm.pending.Decode(PendingCookieName, c.Value, &id); err != nil {
		sm.log.Debug("pending identity cookie rejected", zap.Error(err))
		return nil, false
	}
	if id.Email == "" {
		return nil, false
	}
	return &id, true
}

// ClearPending deletes the pending-signup cookie. Called when signup
// completes or the visitor explicitly resets the flow.
func (sm *SessionManager) ClearPending(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     PendingCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
