// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	userstore "github.com/arundhaj/broadgauge/internal/app/store/users"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/timeouts"
	"github.com/arundhaj/broadgauge/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
}

type loginPageData struct {
	viewdata.BaseVM
	Error        string
	PendingEmail string
	ReturnURL    string
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
	}
}

// ServeLogin handles GET /login.
//
// A pending identity left by the OAuth callback means the visitor
// authenticated with a provider but has no trainer profile. If a plain
// account exists for the email they are logged in; otherwise the page
// explains that no account exists and offers the signup links.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	if pending, ok := h.SessionMgr.Pending(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		user, err := h.Users.GetByEmail(ctx, pending.Email)
		if err == nil {
			h.SessionMgr.ClearPending(w)
			if err := h.SessionMgr.SetLogin(w, r, user.Email); err != nil {
				h.ErrLog.LogServerError(w, r, "failed to set login session", err, "Login failed, please try again.", "/login")
				return
			}
			http.Redirect(w, r, safeReturn(ret, "/dashboard"), http.StatusSeeOther)
			return
		}
		if err != mongo.ErrNoDocuments {
			h.ErrLog.LogServerError(w, r, "user lookup failed", err, "Login failed, please try again.", "/login")
			return
		}

		h.render(w, r, loginPageData{
			BaseVM:       h.baseVM(w, r),
			Error:        "There is no account with email " + pending.Email + ". Sign up as a trainer or an organization first.",
			PendingEmail: pending.Email,
			ReturnURL:    ret,
		})
		return
	}

	h.render(w, r, loginPageData{BaseVM: h.baseVM(w, r), ReturnURL: ret})
}

func (h *Handler) baseVM(w http.ResponseWriter, r *http.Request) viewdata.BaseVM {
	vm := viewdata.NewBaseVM(r, "Login", "/")
	vm.Flashes = h.SessionMgr.TakeFlashes(w, r)
	return vm
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data loginPageData) {
	templates.Render(w, r, "login", data)
}

// safeReturn keeps redirects on this site.
func safeReturn(ret, fallback string) string {
	if ret != "" && strings.HasPrefix(ret, "/") && !strings.HasPrefix(ret, "//") {
		return ret
	}
	return fallback
}
