// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/authz"
	"github.com/arundhaj/broadgauge/internal/app/system/htmlsanitize"
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

type profileForm struct {
	Name    string `validate:"required,max=200" label:"Name"`
	Phone   string `validate:"required,max=50" label:"Phone"`
	City    string `validate:"required,max=100" label:"City"`
	Website string `validate:"omitempty,max=300" label:"Website"`
	Bio     string `validate:"omitempty,max=5000" label:"Bio"`
	GitHub  string `validate:"omitempty,max=100" label:"GitHub username"`
}

type pageData struct {
	viewdata.BaseVM
	Form  profileForm
	Error string
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Trainers:   trainerstore.New(db),
	}
}

// ServeProfile handles GET /settings/profile, showing the edit form
// pre-filled with the trainer's current details.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	trainer, ok := h.requireTrainer(w, r)
	if !ok {
		return
	}

	h.render(w, r, pageData{
		BaseVM: viewdata.NewBaseVM(r, "Edit profile", "/dashboard"),
		Form: profileForm{
			Name:    trainer.Name,
			Phone:   trainer.Phone,
			City:    trainer.City,
			Website: trainer.Website,
			Bio:     trainer.Bio,
			GitHub:  trainer.GitHub,
		},
	})
}

// HandleProfile handles POST /settings/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	trainer, ok := h.requireTrainer(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/settings/profile")
		return
	}

	form := profileForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		City:    strings.TrimSpace(r.FormValue("city")),
		Website: strings.TrimSpace(r.FormValue("website")),
		Bio:     strings.TrimSpace(r.FormValue("bio")),
		GitHub:  strings.TrimSpace(r.FormValue("github")),
	}

	if res := inputval.Validate(form); res.HasErrors() {
		h.render(w, r, pageData{
			BaseVM: viewdata.NewBaseVM(r, "Edit profile", "/dashboard"),
			Form:   form,
			Error:  res.First(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err := h.Trainers.Update(ctx, trainer.ID, trainerstore.Update{
		Name:    form.Name,
		Phone:   form.Phone,
		City:    form.City,
		Website: form.Website,
		Bio:     htmlsanitize.Sanitize(form.Bio),
		GitHub:  form.GitHub,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "trainer update failed", err, "Saving your profile failed, please try again.", "/settings/profile")
		return
	}

	h.Log.Info("trainer profile updated", zap.String("email", trainer.Email))
	h.SessionMgr.Flash(w, r, "info", "Profile updated.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// requireTrainer loads the signed-in trainer, redirecting home when the
// visitor is anonymous or holds no trainer profile.
func (h *Handler) requireTrainer(w http.ResponseWriter, r *http.Request) (*models.Trainer, bool) {
	email := authz.Email(r)
	if email == "" || !authz.IsTrainer(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	trainer, err := h.Trainers.GetByEmail(ctx, email)
	if err == mongo.ErrNoDocuments {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "trainer lookup failed", err, "Loading your profile failed, please try again.", "/dashboard")
		return nil, false
	}
	return trainer, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data pageData) {
	templates.Render(w, r, "profile_edit", data)
}
