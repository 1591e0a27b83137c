// internal/app/features/orgsignup/handler.go
package orgsignup

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	orgstore "github.com/arundhaj/broadgauge/internal/app/store/organizations"
	userstore "github.com/arundhaj/broadgauge/internal/app/store/users"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/inputval"
	"github.com/arundhaj/broadgauge/internal/app/system/timeouts"
	"github.com/arundhaj/broadgauge/internal/app/system/viewdata"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
	Orgs       *orgstore.Store
}

type orgForm struct {
	Name string `validate:"required,max=200" label:"Organization name"`
	City string `validate:"required,max=100" label:"City"`
	Role string `validate:"required,max=100" label:"Your role"`
}

type signupPageData struct {
	viewdata.BaseVM
	HasPending bool
	Email      string
	Provider   string
	Form       orgForm
	Error      string
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
		Orgs:       orgstore.New(db),
	}
}

// ServeSignup handles GET /orgs/signup.
//
// Unlike trainer signup there is no existing-account short circuit: a
// person may administer any number of organizations, so the form is
// always shown once a pending identity is present.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	pending, ok := h.SessionMgr.Pending(r)
	if !ok {
		h.render(w, r, signupPageData{BaseVM: h.baseVM(w, r)})
		return
	}

	h.render(w, r, signupPageData{
		BaseVM:     h.baseVM(w, r),
		HasPending: true,
		Email:      pending.Email,
		Provider:   pending.Provider,
	})
}

// HandleSignup handles POST /orgs/signup.
//
// The user row is reused when the email is already registered, so the
// same person can found several organizations. If the org insert fails
// after a fresh user insert the user row is left behind; it holds no
// role and a retry picks it up.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	pending, ok := h.SessionMgr.Pending(r)
	if !ok {
		http.Redirect(w, r, "/orgs/signup", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/orgs/signup")
		return
	}

	form := orgForm{
		Name: strings.TrimSpace(r.FormValue("name")),
		City: strings.TrimSpace(r.FormValue("city")),
		Role: strings.TrimSpace(r.FormValue("role")),
	}

	if res := inputval.Validate(form); res.HasErrors() {
		h.render(w, r, signupPageData{
			BaseVM:     h.baseVM(w, r),
			HasPending: true,
			Email:      pending.Email,
			Provider:   pending.Provider,
			Form:       form,
			Error:      res.First(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	admin, created, err := h.Users.GetOrCreate(ctx, models.User{
		Name:  pending.Name,
		Email: pending.Email,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "user get-or-create failed", err, "Signup failed, please try again.", "/orgs/signup")
		return
	}

	org, err := h.Orgs.Create(ctx, models.Organization{
		Name:      form.Name,
		City:      form.City,
		AdminID:   admin.ID,
		AdminRole: form.Role,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "organization create failed", err, "Signup failed, please try again.", "/orgs/signup")
		return
	}

	h.Log.Info("organization signed up",
		zap.String("org_id", org.ID.Hex()),
		zap.String("admin_email", pending.Email),
		zap.Bool("new_user", created))

	h.SessionMgr.ClearPending(w)
	if err := h.SessionMgr.SetLogin(w, r, pending.Email); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to set login session", err, "Signup failed, please try again.", "/orgs/signup")
		return
	}
	http.Redirect(w, r, "/orgs/"+org.ID.Hex(), http.StatusSeeOther)
}

func (h *Handler) baseVM(w http.ResponseWriter, r *http.Request) viewdata.BaseVM {
	vm := viewdata.NewBaseVM(r, "Organization signup", "/")
	vm.Flashes = h.SessionMgr.TakeFlashes(w, r)
	return vm
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data signupPageData) {
	templates.Render(w, r, "org_signup", data)
}
