// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	organizationstore "github.com/arundhaj/broadgauge/internal/app/store/organizations"
	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/authz"
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
	Orgs       *organizationstore.Store
}

type dashboardPageData struct {
	viewdata.BaseVM
	Trainer *models.Trainer
	Orgs    []models.Organization
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Trainers:   trainerstore.New(db),
		Orgs:       organizationstore.New(db),
	}
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	email, _, signedIn := authz.UserCtx(r)
	if !signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var trainer *models.Trainer
	t, err := h.Trainers.GetByEmail(ctx, email)
	switch err {
	case nil:
		trainer = t
	case mongo.ErrNoDocuments:
		// org-only account
	default:
		h.ErrLog.LogServerError(w, r, "trainer lookup failed", err, "Failed to load your dashboard.", "/")
		return
	}

	orgs, err := h.Orgs.ListByAdminEmail(ctx, email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "organization lookup failed", err, "Failed to load your dashboard.", "/")
		return
	}

	vm := viewdata.NewBaseVM(r, "Dashboard", "/")
	vm.Flashes = h.SessionMgr.TakeFlashes(w, r)

	templates.Render(w, r, "dashboard", dashboardPageData{
		BaseVM:  vm,
		Trainer: trainer,
		Orgs:    orgs,
	})
}
