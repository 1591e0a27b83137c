// internal/app/features/trainersignup/handler.go
package trainersignup

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
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
	Trainers   *trainerstore.Store
}

// trainerForm carries the POSTed signup fields.
type trainerForm struct {
	Name  string `validate:"required,max=200" label:"Name"`
	Phone string `validate:"required,max=50" label:"Phone"`
	City  string `validate:"required,max=100" label:"City"`
}

type signupPageData struct {
	viewdata.BaseVM
	HasPending bool
	Email      string
	Provider   string
	Form       trainerForm
	Error      string
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Trainers:   trainerstore.New(db),
	}
}

// ServeSignup handles GET /trainers/signup.
//
// Without a pending identity the page offers the provider buttons. With
// one it shows the pre-filled profile form, unless a trainer already
// exists for the email, in which case the visitor is simply logged in.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	pending, ok := h.SessionMgr.Pending(r)
	if !ok {
		h.render(w, r, signupPageData{BaseVM: h.baseVM(w, r)})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	trainer, err := h.Trainers.GetByEmail(ctx, pending.Email)
	if err == nil && trainer != nil {
		// Already signed up, possibly in another tab.
		h.SessionMgr.ClearPending(w)
		if err := h.SessionMgr.SetLogin(w, r, trainer.Email); err != nil {
			h.ErrLog.LogServerError(w, r, "failed to set login session", err, "Signup failed, please try again.", "/trainers/signup")
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if err != nil && err != mongo.ErrNoDocuments {
		h.ErrLog.LogServerError(w, r, "trainer lookup failed", err, "Signup failed, please try again.", "/trainers/signup")
		return
	}

	h.render(w, r, signupPageData{
		BaseVM:     h.baseVM(w, r),
		HasPending: true,
		Email:      pending.Email,
		Provider:   pending.Provider,
		Form:       trainerForm{Name: pending.Name},
	})
}

// HandleSignup handles POST /trainers/signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	pending, ok := h.SessionMgr.Pending(r)
	if !ok {
		// The pending cookie expired under the form.
		http.Redirect(w, r, "/trainers/signup", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/trainers/signup")
		return
	}

	form := trainerForm{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
		City:  strings.TrimSpace(r.FormValue("city")),
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

	_, err := h.Trainers.Create(ctx,
		models.User{Name: form.Name, Email: pending.Email, Phone: form.Phone},
		models.TrainerProfile{City: form.City, GitHub: pending.Handle},
	)
	if err == userstore.ErrDuplicateEmail || err == trainerstore.ErrAlreadyTrainer {
		h.render(w, r, signupPageData{
			BaseVM:     h.baseVM(w, r),
			HasPending: true,
			Email:      pending.Email,
			Provider:   pending.Provider,
			Form:       form,
			Error:      "An account with email " + pending.Email + " already exists.",
		})
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "trainer create failed", err, "Signup failed, please try again.", "/trainers/signup")
		return
	}

	h.Log.Info("trainer signed up",
		zap.String("email", pending.Email),
		zap.String("provider", pending.Provider))

	h.SessionMgr.ClearPending(w)
	if err := h.SessionMgr.SetLogin(w, r, pending.Email); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to set login session", err, "Signup failed, please try again.", "/trainers/signup")
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) baseVM(w http.ResponseWriter, r *http.Request) viewdata.BaseVM {
	vm := viewdata.NewBaseVM(r, "Trainer signup", "/")
	vm.Flashes = h.SessionMgr.TakeFlashes(w, r)
	return vm
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data signupPageData) {
	templates.Render(w, r, "trainer_signup", data)
}
