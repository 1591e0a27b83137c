// internal/app/features/logout/handler.go
package logout

import (
	"net/http"
	"net/url"

	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles POST /logout. It clears the session and sends the
// browser back to the page it came from.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Warn("logout failed", zap.Error(err))
	}
	http.Redirect(w, r, refererPath(r), http.StatusSeeOther)
}

// refererPath returns the local path the request came from, or "/" when
// the Referer is absent or points off-site.
func refererPath(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "/"
	}
	if u.Host != "" && u.Host != r.Host {
		return "/"
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
